package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "description": "why"},
			"focusConcepts": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 4,
			},
			"level": map[string]any{"type": "string", "enum": []any{"low", "high"}},
			"score": map[string]any{"type": "number"},
		},
		"required": []string{"explanation"},
	}

	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Fatalf("Type = %v", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "explanation" {
		t.Errorf("Required = %v", s.Required)
	}
	if s.Properties["explanation"].Description != "why" {
		t.Errorf("description lost")
	}
	arr := s.Properties["focusConcepts"]
	if arr.Type != genai.TypeArray || arr.Items == nil || arr.Items.Type != genai.TypeString {
		t.Errorf("array schema = %+v", arr)
	}
	if arr.MaxItems == nil || *arr.MaxItems != 4 {
		t.Errorf("MaxItems = %v", arr.MaxItems)
	}
	if got := s.Properties["level"].Enum; len(got) != 2 || got[1] != "high" {
		t.Errorf("Enum = %v", got)
	}
	if s.Properties["score"].Type != genai.TypeNumber {
		t.Errorf("score type = %v", s.Properties["score"].Type)
	}
}

func TestGeminiSchema_UnknownTypeFallsBackToString(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != genai.TypeString {
		t.Errorf("Type = %v", s.Type)
	}
}
