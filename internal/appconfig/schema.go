package appconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "providers": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "algorithm"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "algorithm": {"type": "string", "minLength": 1},
          "type": {"type": "string", "enum": ["", "http", "inprocess"]},
          "url": {"type": "string"},
          "path": {"type": "string"},
          "keySize": {"type": "integer", "minimum": 1},
          "hybrid": {"type": "boolean"}
        }
      }
    },
    "first": {"type": "string"},
    "second": {"type": "string"},
    "batchCount": {"type": "integer", "minimum": 1, "maximum": 200},
    "dataSize": {"type": "integer", "minimum": 1},
    "excludeKeyGen": {"type": "boolean"},
    "legDelayMs": {"type": "integer", "minimum": 0},
    "iterationDelayMs": {"type": "integer", "minimum": 0},
    "pairDelayMs": {"type": "integer", "minimum": 0},
    "historySize": {"type": "integer", "minimum": 0, "maximum": 100},
    "timeout": {"type": "integer", "minimum": 0},
    "retryCount": {"type": "integer", "minimum": 0, "maximum": 10},
    "textSourceUrl": {"type": "string"},
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"},
    "metrics": {"type": "boolean"},
    "export": {"type": "string"},
    "natsUrl": {"type": "string"},
    "natsSubject": {"type": "string"}
  }
}`

// ValidateSchema checks a raw JSON config document against the config schema.
func ValidateSchema(raw []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(configSchema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// ValidateSchemaFile is ValidateSchema for JSON files. Other formats are skipped.
func ValidateSchemaFile(path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	return ValidateSchema(raw)
}
