// internal/appconfig/schema.go
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig wraps schema validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "mode":           { "type": "string", "enum": ["flee", "homecoming", "facs"] },
    "input":          { "type": "string" },
    "output":         { "type": "string" },
    "logFile":        { "type": "string" },
    "debug":          { "type": "boolean" },
    "animate":        { "type": "boolean" },
    "skipMismatched": { "type": "boolean" },
    "bins":           { "type": "integer", "minimum": 1 },
    "frameRate":      { "type": "integer", "minimum": 1 },
    "width":          { "type": "number", "exclusiveMinimum": 0 },
    "height":         { "type": "number", "exclusiveMinimum": 0 },
    "summary":        { "type": "string" },
    "summaryFormat":  { "type": "string", "enum": ["json", "yaml", "yml"] },
    "html":           { "type": "string" }
  }
}`

// Validate checks a JSON configuration document against the config schema.
func Validate(document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// ValidateFile validates path when it is a JSON file that exists, using Load.
// Other formats and missing files are left to the caller.
func ValidateFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	_, err := Load(path)
	return err
}
