package cli

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the YAML config file. Unknown keys are rejected so
// that a misspelled setting does not silently fall back to its default.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "language":           {"type": "string"},
    "debug":              {"type": "integer", "minimum": 0, "maximum": 4},
    "csv_file":           {"type": "string"},
    "downloads_dir":      {"type": "string"},
    "prompts_dir":        {"type": "string"},
    "datasets_dir":       {"type": "string"},
    "reports_dir":        {"type": "string"},
    "chars_per_token":    {"type": "integer", "minimum": 1},
    "max_tokens":         {"type": "integer", "minimum": 1},
    "strategy_file":      {"type": "string"},
    "system_prompt":      {"type": "string"},
    "seed":               {"type": "integer"},
    "rules_file":         {"type": "string"},
    "dynamic_indicators": {"type": "array", "items": {"type": "string"}},
    "columns": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "id":             {"type": "string", "minLength": 1},
        "folder":         {"type": "string", "minLength": 1},
        "eligible":       {"type": "string"},
        "eligible_value": {"type": "string"}
      }
    }
  }
}`

var configSchemaLoader = gojsonschema.NewStringLoader(configSchema)

// validateConfigWithSchema checks a decoded config document. A nil document,
// as produced by an empty file, is valid.
func validateConfigWithSchema(doc map[string]any) error {
	if doc == nil {
		return nil
	}

	result, err := gojsonschema.Validate(configSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("error during schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("config failed schema validation:")
	for _, desc := range result.Errors() {
		sb.WriteString("\n- ")
		sb.WriteString(desc.String())
	}
	return fmt.Errorf("%s", sb.String())
}
