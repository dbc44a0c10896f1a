package caller

import (
	"github.com/pkg/errors"
)

// DefaultSeparators splits backslash-namespaced class names, e.g. App\Http\Guard.
const DefaultSeparators = `\`

// GoSeparators splits Go import paths, see TraceFromFrames.
const GoSeparators = "/"

var (
	// ErrTraceTooShort is returned for traces with fewer than two frames; the
	// call site and the executing function always occupy two adjacent entries.
	ErrTraceTooShort = errors.New("trace must contain at least 2 frames")
	ErrNegativeStart = errors.New("start index must not be negative")
)

// Locator finds the first frame of a trace whose class is not filtered.
// The zero value uses DefaultSeparators.
type Locator struct {
	// Separators lists the runes a class name is split on into namespace segments.
	Separators string
}

func NewLocator(separators string) *Locator {
	return &Locator{
		Separators: separators,
	}
}

// LocateCaller is Locator.Locate with DefaultSeparators.
func LocateCaller(trace RawTrace, filterSet *FilterSet, startIndex int) (CallerInfo, error) {
	return Locator{}.Locate(trace, filterSet, startIndex)
}

// Locate returns the first caller at or after startIndex+1 whose class is not
// in filterSet.
//
// A frame holds the function being executed, while the file and line of that
// call are recorded on the next inner frame. The class, function and type of
// the result therefore come from frame i and the file and line from the last
// frame skipped before it.
//
// When every candidate is filtered the result degrades to frame 1 paired with
// frame 0, regardless of filterSet and startIndex.
func (l Locator) Locate(trace RawTrace, filterSet *FilterSet, startIndex int) (CallerInfo, error) {
	if len(trace) < 2 {
		return CallerInfo{}, errors.Wrapf(ErrTraceTooShort, "got %d", len(trace))
	}
	if startIndex < 0 {
		return CallerInfo{}, errors.Wrapf(ErrNegativeStart, "got %d", startIndex)
	}

	maxIndex := len(trace) - 1

	// Compared before adding one so a huge startIndex can't overflow.
	if startIndex >= maxIndex {
		prevIndex := maxIndex - 1
		if prevIndex < 0 {
			prevIndex = 0
		}
		return buildCallerInfo(trace[maxIndex], trace[prevIndex], maxIndex), nil
	}

	// The frame at startIndex belongs to whoever asked for the caller.
	start := startIndex + 1
	prevFrame := trace[start-1]
	for i := start; i <= maxIndex; i++ {
		frame := trace[i]
		if frame.Class == nil || l.isAcceptable(*frame.Class, filterSet) {
			return buildCallerInfo(frame, prevFrame, i), nil
		}
		prevFrame = frame
	}

	return buildCallerInfo(trace[1], trace[0], 1), nil
}

func (l Locator) separators() string {
	if len(l.Separators) == 0 {
		return DefaultSeparators
	}
	return l.Separators
}

// isAcceptable reports whether neither name nor any of its namespace segments
// is in filterSet.
func (l Locator) isAcceptable(name string, filterSet *FilterSet) bool {
	if filterSet.Size() == 0 {
		return true
	}

	candidates := append(NamespaceSegments(name, l.separators()), name)
	return !filterSet.ContainsAny(candidates...)
}

// buildCallerInfo takes class, function and type from primary and file and
// line from secondary.
func buildCallerInfo(primary StackFrame, secondary StackFrame, stackIndex int) CallerInfo {
	return CallerInfo{
		Class:      copyString(primary.Class),
		Function:   copyString(primary.Function),
		Type:       copyString(primary.Type),
		File:       copyString(secondary.File),
		Line:       copyInt(secondary.Line),
		StackIndex: stackIndex,
	}
}
