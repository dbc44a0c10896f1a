package caller

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

const REGEX_CLASS = `[\w\\.$]+`
const REGEX_CLASS_SLASH = `[\w/$]+`
const REGEX_CALL_TYPE = `->|::`
const REGEX_MEMBER = `[^\s()>:-]+`
const REGEX_SOURCE_FILE = `.+?`
const REGEX_LINE_NUMBER = `-?\d+`
const REGEX_ARGUMENTS = `.*`

// For example:
// "#0 /app/src/Guard.php(12): App\Guard->check('x')"
// "#1 [internal function]: App\Worker::run()"
// "#2 /app/index.php(5): helper()"
var REGULAR_EXPRESSION_BACKTRACE = `^\s*#\d+\s+(?:%s\(%l\)|\[internal function\]):\s+(?:%c%t)?%m\(%a\)\s*$`

/**
 * FramePattern parses lines that represent stack frames matching a template.
 * The template is a regular expression in which placeholders expand to
 * capturing groups:
 *   %c class, %C slash-separated class, %t call type, %m function,
 *   %s file, %l line, %a arguments.
 */
type FramePattern struct {
	Template string

	ExpressionTypes []string
	Pattern         *regexp.Regexp
}

func NewFramePattern(template string) *FramePattern {
	framePattern := FramePattern{
		Template: template,
		// Group 0 is the whole match.
		ExpressionTypes: []string{""},
	}

	buffer := bytes.NewBufferString("")

	var index = 0
	for {
		nextIndex := strings.Index(template[index:], "%")
		if nextIndex < 0 || index+nextIndex == len(template)-1 {
			break
		}
		nextIndex += index

		// Copy a literal piece of the template.
		buffer.WriteString(template[index:nextIndex])

		expressionType := template[nextIndex+1 : nextIndex+2]
		var expression string
		switch expressionType {
		case "c":
			expression = REGEX_CLASS
		case "C":
			expression = REGEX_CLASS_SLASH
		case "t":
			expression = REGEX_CALL_TYPE
		case "m":
			expression = REGEX_MEMBER
		case "s":
			expression = REGEX_SOURCE_FILE
		case "l":
			expression = REGEX_LINE_NUMBER
		case "a":
			expression = REGEX_ARGUMENTS
		default:
			// Not a placeholder, keep it literally.
			buffer.WriteString(template[nextIndex : nextIndex+2])
			index = nextIndex + 2
			continue
		}

		buffer.WriteString("(")
		buffer.WriteString(expression)
		buffer.WriteString(")")
		framePattern.ExpressionTypes = append(framePattern.ExpressionTypes, expressionType)
		index = nextIndex + 2
	}

	// Copy the last literal piece of the template.
	buffer.WriteString(template[index:])

	framePattern.Pattern = regexp.MustCompile(buffer.String())

	return &framePattern
}

// DefaultFramePattern recognises "#N file(line): Class->method(args)" lines.
func DefaultFramePattern() *FramePattern {
	return NewFramePattern(REGULAR_EXPRESSION_BACKTRACE)
}

/**
* Parses all frame information from a given line.
* Groups that did not take part in the match leave their field nil.
* @return the parsed frame, and false if the line doesn't match a
*         stack frame.
 */
func (f *FramePattern) Parse(line string) (StackFrame, bool) {
	indexes := f.Pattern.FindStringSubmatchIndex(line)
	if indexes == nil {
		return StackFrame{}, false
	}

	var frame StackFrame
	for i := 1; i < len(f.ExpressionTypes) && 2*i+1 < len(indexes); i++ {
		start, end := indexes[2*i], indexes[2*i+1]
		if start < 0 {
			continue
		}
		result := line[start:end]

		switch f.ExpressionTypes[i] {
		case "c":
			frame.Class = String(result)
		case "C":
			frame.Class = String(ExternalClassName(result))
		case "t":
			frame.Type = String(result)
		case "m":
			frame.Function = String(result)
		case "s":
			frame.File = String(result)
		case "l":
			lineNumber, err := strconv.Atoi(result)
			if err == nil {
				frame.Line = Int(lineNumber)
			}
		}
	}

	return frame, true
}
