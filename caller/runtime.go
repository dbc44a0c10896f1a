package caller

import (
	"runtime"
	"strings"
)

// TraceFromFrames converts Go frames, innermost first, into a RawTrace.
//
// Go reports the file and line a function is executing at on its own frame,
// while a RawTrace records them one frame inwards. Entry i therefore carries
// the function of Go frame i and the position of Go frame i+1; the outermost
// entry has no position. Class is the package import path, so traces are
// meant to be located with GoSeparators.
//
// Capturing the frames stays with the caller:
//
//	pcs := make([]uintptr, 32)
//	n := runtime.Callers(1, pcs)
//	trace := caller.TraceFromFrames(runtime.CallersFrames(pcs[:n]))
func TraceFromFrames(frames *runtime.Frames) RawTrace {
	var goFrames []runtime.Frame
	for {
		frame, more := frames.Next()
		if frame.Function != "" || frame.File != "" {
			goFrames = append(goFrames, frame)
		}
		if !more {
			break
		}
	}

	trace := make(RawTrace, len(goFrames))
	for i, frame := range goFrames {
		pkg, function := splitFuncName(frame.Function)
		if len(pkg) > 0 {
			trace[i].Class = String(pkg)
		}
		if len(function) > 0 {
			trace[i].Function = String(function)
		}

		if i+1 < len(goFrames) {
			outer := goFrames[i+1]
			trace[i].File = String(outer.File)
			trace[i].Line = Int(outer.Line)
		}
	}

	return trace
}

// splitFuncName splits a symbol like "github.com/a/b.(*T).M" into its package
// path "github.com/a/b" and "(*T).M".
func splitFuncName(name string) (string, string) {
	lastSlash := strings.LastIndex(name, "/")
	dot := strings.Index(name[lastSlash+1:], ".")
	if dot < 0 {
		return "", name
	}
	dot += lastSlash + 1

	// The linker escapes dots in the last path element.
	pkg := strings.ReplaceAll(name[:dot], "%2e", ".")
	return pkg, name[dot+1:]
}
