package caller

// StackFrame is one entry of a raw trace as the host runtime reports it.
// Every field is optional; a nil Class marks a free function.
type StackFrame struct {
	Class    *string `json:"class,omitempty"`
	Function *string `json:"function,omitempty"`
	Type     *string `json:"type,omitempty"`
	File     *string `json:"file,omitempty"`
	Line     *int    `json:"line,omitempty"`
}

// RawTrace is an ordered frame sequence, index 0 being the innermost call.
type RawTrace []StackFrame

// CallerInfo describes the located caller. All six fields are always
// encoded, unknown values as null.
type CallerInfo struct {
	Class      *string `json:"class"`
	Function   *string `json:"function"`
	Type       *string `json:"type"`
	File       *string `json:"file"`
	Line       *int    `json:"line"`
	StackIndex int     `json:"stackIndex"`
}

// String returns a pointer to a copy of s.
func String(s string) *string {
	return &s
}

// Int returns a pointer to a copy of i.
func Int(i int) *int {
	return &i
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return String(*s)
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	return Int(*i)
}
