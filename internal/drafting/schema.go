package drafting

import (
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/llm"
)

// DraftSchema is the structured output requested from the LLM: the card
// array of a level file.
var DraftSchema = &llm.Schema{
	Name:        "level-draft",
	Description: "Hebrew practice sentences for one level of a card puzzle course",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"cards"},
		"properties": map[string]any{
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    level.SentenceSchema(),
			},
		},
	},
}
