package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
  "type": "object",
  "properties": {
    "service":       {"type": "string", "enum": ["local", "remote"]},
    "model":         {"type": "string"},
    "api_key":       {"type": "string"},
    "timeout":       {"type": "integer", "minimum": 0},
    "base_url":      {"type": "string", "pattern": "^$|^https?://"},
    "system_prompt": {"type": "string"},
    "notes_dir":     {"type": "string", "minLength": 1},
    "extensions": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "pattern": "^\\.[a-z0-9]+$"}
    }
  },
  "required": ["service", "notes_dir", "extensions"]
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(configSchema))
	})
	return schema, schemaErr
}

func validateSchema(c *Config) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("config: invalid schema definition: %w", err)
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("config: validation execution failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	if len(errs) > 3 {
		errs = append(errs[:3], fmt.Sprintf("... and %d more", len(errs)-3))
	}
	return fmt.Errorf("config: invalid:\n- %s", strings.Join(errs, "\n- "))
}
