package narrate

import "github.com/abhisek/horoscope/internal/llm"

// NarrativeSchema is the JSON shape the model must return for one pair.
var NarrativeSchema = &llm.Schema{
	Name:        "pair-narrative",
	Description: "Compatibility prose for one pair of zodiac signs",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences on how the signs get along overall",
			},
			"relationship": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "A short paragraph on the pair as a couple: strengths first, then friction",
			},
		},
		"required":             []any{"summary", "relationship"},
		"additionalProperties": false,
	},
}

type narrativeOutput struct {
	Summary      string `json:"summary"`
	Relationship string `json:"relationship"`
}
