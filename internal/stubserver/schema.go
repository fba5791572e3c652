package stubserver

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// loadSchema compiles the JSON Schema file the echo endpoint validates
// request bodies against. Returns nil when no schema is configured.
func loadSchema(path string) (*jsonschema.Schema, error) {
	if path == "" {
		return nil, nil
	}

	compiler := jsonschema.NewCompiler()

	schema, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compile JSON schema %s: %w", path, err)
	}

	return schema, nil
}

// validateBody checks a raw JSON body against the compiled schema.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}
