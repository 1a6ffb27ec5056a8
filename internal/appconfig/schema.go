// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema is the JSON Schema every configuration file must satisfy before
// it is decoded into a Config.
const configSchema = `{
  "type": "object",
  "required": ["apiBase", "charts"],
  "properties": {
    "apiBase": {"type": "string", "minLength": 1},
    "project": {"type": "string"},
    "projects": {"type": "array", "items": {"type": "string"}},
    "token": {"type": "string"},
    "tokenFile": {"type": "string"},
    "timespan": {"type": "string"},
    "refresh": {"type": "integer", "minimum": 1},
    "timeout": {"type": "integer", "minimum": 1},
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"},
    "charts": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["metric"],
        "properties": {
          "title": {"type": "string"},
          "metric": {"type": "string", "minLength": 1},
          "kind": {"type": "string", "enum": ["scalar", "distribution"]},
          "unit": {"type": "string", "enum": ["", "kb", "hours"]},
          "labels": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// validate checks raw config JSON against the embedded schema and reports every
// violation in one error.
func validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("config does not match schema: %s", strings.Join(details, "; "))
}
