package diagnosis

import "github.com/abhisek/studymate/internal/llm"

// DiagnosisSchema is the structured output of the LLM diagnoser.
var DiagnosisSchema = &llm.Schema{
	Name:        "error-tag-diagnosis",
	Description: "Pick the error tag that best explains a wrong multiple-choice answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tag_id": map[string]any{
				"type":        []any{"string", "null"},
				"description": "ID of the best matching tag from the list, or null if none fits",
			},
			"confidence": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 1.0,
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "One sentence on why the tag fits or why none does",
			},
		},
		"required":             []any{"tag_id", "confidence", "reasoning"},
		"additionalProperties": false,
	},
}
