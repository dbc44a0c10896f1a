package caller

import (
	"bufio"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// TraceReader reads a textual backtrace, one frame per line.
type TraceReader struct {
	fileReader io.Reader
	pattern    *FramePattern
}

func NewTraceReader(fileReader io.Reader, pattern *FramePattern) *TraceReader {
	if pattern == nil {
		pattern = DefaultFramePattern()
	}

	reader := TraceReader{
		fileReader: fileReader,
		pattern:    pattern,
	}

	return &reader
}

// Read returns the frames of every matching line in input order. Lines that
// don't match the pattern, like "{main}" or the exception message, are skipped.
func (r *TraceReader) Read() (RawTrace, error) {
	var trace RawTrace

	scanner := bufio.NewScanner(r.fileReader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		frame, ok := r.pattern.Parse(line)
		if !ok {
			continue
		}
		trace = append(trace, frame)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading text trace")
	}

	return trace, nil
}

// ReadJSONTrace decodes a JSON array of frame objects. Absent keys stay nil.
func ReadJSONTrace(r io.Reader) (RawTrace, error) {
	var trace RawTrace
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&trace); err != nil {
		return nil, errors.Wrap(err, "decoding json trace")
	}
	if decoder.More() {
		return nil, errors.New("decoding json trace: unexpected data after the frame array")
	}
	return trace, nil
}
