package coach

import "github.com/abhisek/adaptiq/internal/llm"

// MaxTips bounds the number of tips in a note.
const MaxTips = 3

// NoteSchema is the JSON schema for an end-of-session coaching note.
var NoteSchema = &llm.Schema{
	Name:        "coach-note",
	Description: "A short encouraging note with practice tips after an arithmetic quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One encouraging sentence about the session (at most 15 words)",
			},
			"tips": map[string]any{
				"type":        "array",
				"description": "Concrete practice tips, one sentence each",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    MaxTips,
			},
		},
		"required":             []any{"headline", "tips"},
		"additionalProperties": false,
	},
}
