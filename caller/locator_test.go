package caller

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(class string, function string, file string, line int) StackFrame {
	f := StackFrame{
		Function: String(function),
		File:     String(file),
		Line:     Int(line),
	}
	if len(class) > 0 {
		f.Class = String(class)
		f.Type = String("->")
	}
	return f
}

func TestLocateCallerSkipsFilteredClass(t *testing.T) {
	trace := RawTrace{
		{Class: String(`App\Guard`)},
		{Class: String(`App\Guard`), File: String("a.php"), Line: Int(10)},
		{Class: String(`App\Caller`), File: String("b.php"), Line: Int(20)},
	}

	info, err := LocateCaller(trace, NewFilterSet(`App\Guard`), 0)
	require.NoError(t, err)

	assert.Equal(t, `App\Caller`, *info.Class)
	assert.Equal(t, "a.php", *info.File)
	assert.Equal(t, 10, *info.Line)
	assert.Equal(t, 2, info.StackIndex)
	assert.Nil(t, info.Function)
	assert.Nil(t, info.Type)
}

func TestLocateCallerClampsShortTrace(t *testing.T) {
	tests := []struct {
		name       string
		trace      RawTrace
		startIndex int
		class      string
		file       string
		stackIndex int
	}{
		{
			name: "two frames",
			trace: RawTrace{
				frame(`App\Inner`, "inner", "inner.php", 1),
				frame(`App\Outer`, "outer", "outer.php", 2),
			},
			startIndex: 1,
			class:      `App\Outer`,
			file:       "inner.php",
			stackIndex: 1,
		},
		{
			name: "start far beyond the end",
			trace: RawTrace{
				frame(`App\A`, "a", "a.php", 1),
				frame(`App\B`, "b", "b.php", 2),
				frame(`App\C`, "c", "c.php", 3),
			},
			startIndex: 10,
			class:      `App\C`,
			file:       "b.php",
			stackIndex: 2,
		},
		{
			name: "largest start index",
			trace: RawTrace{
				frame(`App\A`, "a", "a.php", 1),
				frame(`App\B`, "b", "b.php", 2),
				frame(`App\C`, "c", "c.php", 3),
			},
			startIndex: math.MaxInt,
			class:      `App\C`,
			file:       "b.php",
			stackIndex: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var info CallerInfo
			var err error
			require.NotPanics(t, func() {
				info, err = LocateCaller(tt.trace, NewFilterSet(), tt.startIndex)
			})
			require.NoError(t, err)
			assert.Equal(t, tt.class, *info.Class)
			assert.Equal(t, tt.file, *info.File)
			assert.Equal(t, tt.stackIndex, info.StackIndex)
		})
	}
}

func TestLocateCallerFallsBackWhenEverythingIsFiltered(t *testing.T) {
	trace := RawTrace{
		frame(`App\Guard\Check`, "zero", "zero.php", 100),
		frame(`App\Guard\Check`, "one", "one.php", 101),
		frame(`App\Guard\Assert`, "two", "two.php", 102),
		frame(`App\Guard`, "three", "three.php", 103),
	}

	info, err := LocateCaller(trace, NewFilterSet("Guard"), 1)
	require.NoError(t, err)

	assert.Equal(t, `App\Guard\Check`, *info.Class)
	assert.Equal(t, "one", *info.Function)
	assert.Equal(t, "zero.php", *info.File)
	assert.Equal(t, 100, *info.Line)
	assert.Equal(t, 1, info.StackIndex)
}

func TestLocateCallerAcceptsFreeFunction(t *testing.T) {
	trace := RawTrace{
		frame(`App\Guard`, "check", "guard.php", 5),
		{Function: String("helper"), File: String("helpers.php"), Line: Int(7)},
		frame(`App\Controller`, "index", "controller.php", 9),
	}

	info, err := LocateCaller(trace, NewFilterSet(`App\Guard`), 0)
	require.NoError(t, err)

	assert.Nil(t, info.Class)
	assert.Nil(t, info.Type)
	assert.Equal(t, "helper", *info.Function)
	assert.Equal(t, "guard.php", *info.File)
	assert.Equal(t, 5, *info.Line)
	assert.Equal(t, 1, info.StackIndex)
}

func TestLocateCallerPairsWithLastSkippedFrame(t *testing.T) {
	trace := RawTrace{
		frame(`Lib\Report`, "caller", "r0.php", 1),
		frame(`Lib\Report`, "wrap", "r1.php", 2),
		frame(`Lib\Internal\Wrap`, "call", "r2.php", 3),
		frame(`Lib\Internal\Wrap`, "call", "r3.php", 4),
		frame(`App\Service`, "run", "s.php", 5),
		frame(`App\Kernel`, "handle", "k.php", 6),
	}

	info, err := LocateCaller(trace, NewFilterSet("Internal"), 1)
	require.NoError(t, err)

	assert.Equal(t, `App\Service`, *info.Class)
	assert.Equal(t, "run", *info.Function)
	assert.Equal(t, "->", *info.Type)
	assert.Equal(t, "r3.php", *info.File)
	assert.Equal(t, 4, *info.Line)
	assert.Equal(t, 4, info.StackIndex)
}

func TestLocateCallerWithoutFilter(t *testing.T) {
	trace := RawTrace{
		frame(`App\A`, "a", "a.php", 1),
		frame(`App\B`, "b", "b.php", 2),
		frame(`App\C`, "c", "c.php", 3),
	}

	for _, filterSet := range []*FilterSet{nil, NewFilterSet()} {
		info, err := LocateCaller(trace, filterSet, 0)
		require.NoError(t, err)
		assert.Equal(t, `App\B`, *info.Class)
		assert.Equal(t, "a.php", *info.File)
		assert.Equal(t, 1, info.StackIndex)
	}
}

func TestIsAcceptable(t *testing.T) {
	filterSet := NewFilterSet(`App\Guard`, "Internal")
	locator := Locator{}

	tests := []struct {
		name       string
		acceptable bool
	}{
		{`App\Guard`, false},
		{`Vendor\Internal\Helper`, false},
		{`Internal`, false},
		{`App\GuardRail`, true},
		{`App\Guard\Sub`, true},
		{`App`, true},
		{`\App\Controller`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.acceptable, locator.isAcceptable(tt.name, filterSet))
		})
	}
}

func TestLocatorCustomSeparators(t *testing.T) {
	trace := RawTrace{
		frame("com.example.errors.Guard", "check", "Guard.java", 10),
		frame("com.example.errors.Guard", "require", "Guard.java", 20),
		frame("com.example.app.Main", "main", "Main.java", 30),
	}

	info, err := NewLocator(".").Locate(trace, NewFilterSet("errors"), 0)
	require.NoError(t, err)
	assert.Equal(t, "com.example.app.Main", *info.Class)
	// Paired with the last skipped frame, Guard.require.
	assert.Equal(t, "Guard.java", *info.File)
	assert.Equal(t, 20, *info.Line)
	assert.Equal(t, 2, info.StackIndex)

	// The default separator doesn't split dotted names.
	info, err = LocateCaller(trace, NewFilterSet("errors"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, info.StackIndex)
}

func TestLocateCallerErrors(t *testing.T) {
	_, err := LocateCaller(nil, nil, 0)
	assert.True(t, errors.Is(err, ErrTraceTooShort))

	_, err = LocateCaller(RawTrace{frame(`App\A`, "a", "a.php", 1)}, nil, 0)
	assert.True(t, errors.Is(err, ErrTraceTooShort))
	assert.Contains(t, err.Error(), "got 1")

	trace := RawTrace{frame(`App\A`, "a", "a.php", 1), frame(`App\B`, "b", "b.php", 2)}
	_, err = LocateCaller(trace, nil, -1)
	assert.True(t, errors.Is(err, ErrNegativeStart))
}

func TestLocateCallerIsPure(t *testing.T) {
	trace := RawTrace{
		frame(`App\Guard`, "check", "guard.php", 5),
		frame(`App\Guard`, "assert", "guard.php", 6),
		frame(`App\Controller`, "index", "controller.php", 9),
	}
	filterSet := NewFilterSet("Guard")

	first, err := LocateCaller(trace, filterSet, 0)
	require.NoError(t, err)
	second, err := LocateCaller(trace, filterSet, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The result doesn't alias the trace.
	*first.Class = "changed"
	*first.Line = 0
	assert.Equal(t, `App\Controller`, *trace[2].Class)
	assert.Equal(t, 6, *trace[1].Line)
}

func TestCallerInfoAlwaysHasSixKeys(t *testing.T) {
	trace := RawTrace{{}, {}}

	info, err := LocateCaller(trace, nil, 0)
	require.NoError(t, err)

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded, 6)
	for _, key := range []string{"class", "function", "type", "file", "line"} {
		value, ok := decoded[key]
		assert.True(t, ok, key)
		assert.Nil(t, value, key)
	}
	assert.EqualValues(t, 1, decoded["stackIndex"])
}
