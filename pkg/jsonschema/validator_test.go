package jsonschema

import "testing"

const schema = `{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func TestValidate(t *testing.T) {
	if err := Validate(`{"name":"ada","age":36}`, schema); err != nil {
		t.Errorf("conforming document rejected: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	if err := Validate(`{"name":"ada"}`, schema); err == nil {
		t.Error("missing required property should fail")
	}
	if err := Validate(`{"name":"ada","age":-1}`, schema); err == nil {
		t.Error("violated minimum should fail")
	}
	if err := Validate(`not json`, schema); err == nil {
		t.Error("invalid JSON should fail")
	}
	if err := Validate(`{}`, `{"type": 42}`); err == nil {
		t.Error("invalid schema should fail")
	}
}
