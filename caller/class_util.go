package caller

import "strings"

/*
* Convert an internal class name into an external class name.
* e.g. java/lang/Object -> java.lang.Object
 */
func ExternalClassName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// NamespaceSegments splits a fully-qualified name on any rune of separators.
// Empty segments, e.g. from a leading separator, are dropped.
// e.g. App\Http\Guard -> [App Http Guard]
func NamespaceSegments(name string, separators string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
}
