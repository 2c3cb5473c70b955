package level

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SentenceSchema returns the JSON schema of one card record. It is shared by
// the level loader and by LLM-backed level drafting.
func SentenceSchema() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	taskTypes := make([]any, 0, len(AllTaskTypes()))
	for _, t := range AllTaskTypes() {
		taskTypes = append(taskTypes, string(t))
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"uiDisplayTitle", "taskType"},
		"properties": map[string]any{
			"uiDisplayTitle":    map[string]any{"type": "string", "minLength": 1},
			"gamePrompt":        map[string]any{"type": []any{"string", "null"}},
			"translationPrompt": map[string]any{"type": []any{"string", "null"}},
			"audioFilename":     map[string]any{"type": []any{"string", "null"}},
			"voice":             map[string]any{"type": []any{"string", "null"}},
			"taskType":          map[string]any{"enum": taskTypes},
			"swapColumns":       map[string]any{"type": "boolean"},
			"correctOptions":    stringList,
			"taskTargetCards":   stringList,
			"distractorOptions": stringList,
			"taskPairs": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
					"maxItems": 2,
				},
			},
			"segments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"start_ms", "end_ms"},
					"properties": map[string]any{
						"text":     map[string]any{"type": "string"},
						"start_ms": map[string]any{"type": "integer", "minimum": 0},
						"end_ms":   map[string]any{"type": "integer", "minimum": 0},
					},
				},
			},
		},
	}
}

// FileSchema returns the JSON schema of a whole level file.
func FileSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"levelId", "cards"},
		"properties": map[string]any{
			"levelId": map[string]any{"type": []any{"string", "integer"}},
			"cards": map[string]any{
				"type":  "array",
				"items": SentenceSchema(),
			},
		},
	}
}

var (
	fileSchemaOnce sync.Once
	fileSchema     *jsonschema.Schema
	fileSchemaErr  error
)

func compiledFileSchema() (*jsonschema.Schema, error) {
	fileSchemaOnce.Do(func() {
		fileSchema, fileSchemaErr = CompileSchema("level-file", FileSchema())
	})
	return fileSchema, fileSchemaErr
}

// CompileSchema compiles a schema definition given as a Go map.
func CompileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a parsed JSON value, so round-trip through JSON.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return compiled, nil
}

// Validate checks data against the level file schema. Validation problems
// are advisory: the lenient decoder still loads what it can.
func Validate(data []byte) error {
	compiled, err := compiledFileSchema()
	if err != nil {
		return err
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
