package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// catalogSchema validates external catalog files before they are
// trusted. Subtypes are pinned to the Vocabulary so a catalog cannot
// introduce labels Canonicalize does not know about.
var catalogSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"rows": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"subtype": map[string]any{
						"type": "string",
						"enum": vocabularyEnum(),
					},
					"intended_outcome": map[string]any{
						"type": "string",
					},
					"feedback": map[string]any{
						"type": "string",
					},
				},
				"required":             []any{"id", "subtype", "intended_outcome", "feedback"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"version", "rows"},
	"additionalProperties": false,
}

func vocabularyEnum() []any {
	out := make([]any, len(Vocabulary))
	for i, s := range Vocabulary {
		out[i] = s
	}
	return out
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiled returns the compiled catalog schema, compiling it once.
func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(catalogSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://catalog.json", defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://catalog.json")
	})
	return compiledSchema, compileErr
}

// validateCatalog checks raw catalog JSON against the schema.
func validateCatalog(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
