package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema describes the persisted profile collection. A document
// that doesn't conform is treated as absent rather than repaired.
const documentSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name", "dob", "gender", "interests"],
		"properties": {
			"id":        {"type": "string", "minLength": 1},
			"name":      {"type": "string"},
			"dob":       {"type": "string"},
			"gender":    {"type": "string", "enum": ["boy", "girl", "other"]},
			"interests": {"type": "array", "items": {"type": "string"}},
			"lessons": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "title", "timestamp", "messages"],
					"properties": {
						"id":        {"type": "string", "minLength": 1},
						"title":     {"type": "string"},
						"timestamp": {"type": "integer"},
						"messages": {
							"type": "array",
							"items": {
								"type": "object",
								"required": ["role", "text", "timestamp"],
								"properties": {
									"role":      {"type": "string", "enum": ["user", "model"]},
									"text":      {"type": "string"},
									"timestamp": {"type": "integer"},
									"audioUrl":  {"type": "string"}
								}
							}
						}
					}
				}
			}
		}
	}
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// validateDocument checks raw against the profile collection schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := documentValidator()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// documentValidator compiles the document schema once.
func documentValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(documentSchema), &def); err != nil {
			compileErr = err
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://profiles.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}
