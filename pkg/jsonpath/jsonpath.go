// Package jsonpath reads values out of raw JSON documents using a small
// JSONPath subset ($.a.b, $[0], $.a[1].b, $['a']).
package jsonpath

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FirstString returns the first of paths that resolves to a non-empty string.
// Non-JSON documents and missing paths are not errors.
func FirstString(json []byte, paths ...string) (string, bool) {
	if len(json) == 0 || !gjson.ValidBytes(json) {
		return "", false
	}

	for _, path := range paths {
		result := gjson.GetBytes(json, toGjsonPath(path))
		if result.Type == gjson.String && result.Str != "" {
			return result.Str, true
		}
	}
	return "", false
}

// Count returns the number of elements of the array at path, or -1 when the
// path does not resolve to an array.
func Count(json []byte, path string) int {
	result := gjson.GetBytes(json, toGjsonPath(path))
	if !result.IsArray() {
		return -1
	}
	return int(result.Get("#").Int())
}

// toGjsonPath converts a JSONPath expression to gjson path syntax:
// $.users[0].name becomes users.0.name
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	replacer := strings.NewReplacer("['", ".", "']", "", `["`, ".", `"]`, "", "[", ".", "]", "")
	path = replacer.Replace(path)
	return strings.TrimPrefix(path, ".")
}
