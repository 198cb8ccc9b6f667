package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var sent map[string]any
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		chatReply(`{"explanation":"ok"}`, "stop")(w, r)
	})

	req := Prompt("sys", "explain")
	req.Schema = &Schema{
		Name: "openai-structured",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"explanation": map[string]any{"type": "string"}},
			"required":   []string{"explanation"},
		},
	}
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.TotalTokens != 65 || resp.StopReason != "end" {
		t.Errorf("resp = %+v", resp)
	}

	format, _ := sent["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", sent["response_format"])
	}
	msgs, _ := sent["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("messages = %d, want system + user", len(msgs))
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAI(t, chatReply(`{"wrong":true}`, "stop"))
	req := Prompt("", "explain")
	req.Schema = &Schema{
		Name: "openai-mismatch",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"explanation"},
		},
	}
	_, err := p.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want *ErrInvalidResponse", err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
		})
	})
	_, err := p.Generate(context.Background(), Prompt("", "x"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T (%v), want *ErrRateLimit", err, err)
	}
}

func TestOpenRouterProvider_Defaults(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}

	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		chatReply(`"hi"`, "stop")(w, r)
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-001", BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), Prompt("", "x")); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if path != "/api/v1/chat/completions" {
		t.Errorf("path = %q", path)
	}
}
