package caller

import (
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
)

// FilterSet holds the namespace fragments and fully-qualified names that are
// never reported as the caller.
type FilterSet struct {
	set *hashset.Set
}

func NewFilterSet(names ...string) *FilterSet {
	filterSet := FilterSet{
		set: hashset.New(),
	}
	filterSet.Add(names...)

	return &filterSet
}

// ParseFilterSet builds a set from comma separated lists, e.g. "App\Guard,Vendor".
// Blank entries are ignored.
func ParseFilterSet(lists ...string) *FilterSet {
	filterSet := NewFilterSet()
	for _, list := range lists {
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			if len(name) == 0 {
				continue
			}
			filterSet.Add(name)
		}
	}

	return filterSet
}

func (f *FilterSet) Add(names ...string) {
	for _, name := range names {
		f.set.Add(name)
	}
}

func (f *FilterSet) Contains(name string) bool {
	if f == nil || f.set == nil {
		return false
	}
	return f.set.Contains(name)
}

// ContainsAny reports whether the intersection of names and the set is non-empty.
func (f *FilterSet) ContainsAny(names ...string) bool {
	for _, name := range names {
		if f.Contains(name) {
			return true
		}
	}
	return false
}

func (f *FilterSet) Size() int {
	if f == nil || f.set == nil {
		return 0
	}
	return f.set.Size()
}

// Values returns the members in no particular order.
func (f *FilterSet) Values() []string {
	if f == nil || f.set == nil {
		return nil
	}

	values := make([]string, 0, f.set.Size())
	for _, item := range f.set.Values() {
		values = append(values, item.(string))
	}
	return values
}
