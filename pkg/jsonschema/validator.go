// Package jsonschema validates JSON documents against JSON Schema
// definitions.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validate checks a JSON document against a JSON Schema. It returns nil
// when the document conforms, a descriptive error when it does not, and
// a wrapped error when either input cannot be parsed.
func Validate(doc, schemaStr string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaStr)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var data interface{}
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(data); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
