// Package jsonpath extracts values from JSON documents using JSONPath
// expressions, backed by gjson.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract evaluates a JSONPath expression such as $.items[0].name
// against a JSON document and returns the matched value as a string.
func Extract(doc, path string) (string, error) {
	if doc == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.Valid(doc) {
		return "", fmt.Errorf("response body is not valid JSON")
	}

	result := gjson.Get(doc, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// toGjsonPath converts JSONPath syntax ($.users[0].name) to gjson
// syntax (users.0.name).
func toGjsonPath(path string) string {
	p := strings.TrimPrefix(path, "$")
	p = strings.TrimPrefix(p, ".")
	p = strings.ReplaceAll(p, "[", ".")
	p = strings.ReplaceAll(p, "]", "")
	return strings.Trim(p, ".")
}
