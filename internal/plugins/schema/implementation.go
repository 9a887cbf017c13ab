package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks tool call arguments against the tool parameter schema.
// The schema is compiled once.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the tool parameter schema.
func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(Parameters()))
	if err != nil {
		return nil, fmt.Errorf("could not compile tool schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate validates the JSON-encoded arguments of a tool call.
func (v *Validator) Validate(arguments string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(arguments))
	if err != nil {
		return fmt.Errorf("error during schema validation: %w", err)
	}

	if !result.Valid() {
		errorString := "arguments failed schema validation:"
		for _, desc := range result.Errors() {
			errorString += fmt.Sprintf("\n- %s", desc)
		}
		return fmt.Errorf("%s", errorString)
	}

	return nil
}

// EncodeArguments returns {"jsxContent": code} as a JSON string. HTML
// characters are kept literal since JSX is full of them.
func EncodeArguments(code string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string{ArgumentKey: code}); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeArguments extracts the widget source from JSON-encoded arguments.
func DecodeArguments(arguments string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	code, ok := args[ArgumentKey].(string)
	if !ok {
		return "", fmt.Errorf("arguments have no string %q", ArgumentKey)
	}
	return code, nil
}
