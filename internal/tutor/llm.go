package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/llm"
)

const systemPrompt = `You are a patient study tutor. A learner answered a multiple-choice question incorrectly.
Explain briefly why the correct option is right and why the chosen option is tempting but wrong.
Name the concepts to revisit, suggest concrete study resources and end with one follow-up question.
Keep the explanation under 120 words and do not repeat the whole question.`

// ExplanationSchema is the structured output requested from the model.
var ExplanationSchema = &llm.Schema{
	Name:        "tutor-explanation",
	Description: "Feedback for an incorrectly answered multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"focusConcepts": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 5,
			},
			"suggestedResources": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 5,
			},
			"followUpPrompt": map[string]any{"type": "string"},
		},
		"required":             []string{"explanation", "focusConcepts", "suggestedResources", "followUpPrompt"},
		"additionalProperties": false,
	},
}

// LLMExplainer asks a language model for structured feedback.
type LLMExplainer struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

func NewLLMExplainer(p llm.Provider, maxTokens int, temperature float64) *LLMExplainer {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &LLMExplainer{provider: p, maxTokens: maxTokens, temperature: temperature}
}

type explanation struct {
	Explanation        string   `json:"explanation"`
	FocusConcepts      []string `json:"focusConcepts"`
	SuggestedResources []string `json:"suggestedResources"`
	FollowUpPrompt     string   `json:"followUpPrompt"`
}

func (e *LLMExplainer) Explain(ctx context.Context, req Request) (domain.AIFeedback, error) {
	prompt := llm.Prompt(systemPrompt, userPrompt(req))
	prompt.Schema = ExplanationSchema
	prompt.MaxTokens = e.maxTokens
	prompt.Temperature = e.temperature

	resp, err := e.provider.Generate(llm.WithPurpose(ctx, "tutor-explain"), prompt)
	if err != nil {
		return domain.AIFeedback{}, err
	}
	var out explanation
	if err := resp.Decode(&out); err != nil {
		return domain.AIFeedback{}, err
	}
	return domain.AIFeedback{
		Explanation:        out.Explanation,
		FocusConcepts:      out.FocusConcepts,
		SuggestedResources: out.SuggestedResources,
		FollowUpPrompt:     out.FollowUpPrompt,
	}, nil
}

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", req.Item.Stem)
	for i, opt := range req.Item.Options {
		marker := " "
		switch i {
		case req.Item.AnswerIndex:
			marker = "*"
		case req.SelectedOption:
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %c) %s\n", marker, 'A'+rune(i), opt)
	}
	fmt.Fprintf(&b, "\nCorrect answer (*): %s\nLearner chose (>): %s\n", req.Item.CorrectOption(), req.Item.Option(req.SelectedOption))
	fmt.Fprintf(&b, "Learner confidence: %.0f%%, answered in %.1fs\n",
		req.Attempt.Confidence*100, float64(req.Attempt.LatencyMs)/1000)
	if len(req.ErrorTags) > 0 {
		names := make([]string, 0, len(req.ErrorTags))
		for _, t := range req.ErrorTags {
			names = append(names, t.Name)
		}
		fmt.Fprintf(&b, "Suspected mistake: %s\n", strings.Join(names, ", "))
	}
	return b.String()
}
