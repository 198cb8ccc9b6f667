package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/httpx"
)

// HTTPExplainer calls a tutor service at POST {BaseURL}/ai/explain.
type HTTPExplainer struct {
	baseURL string
	client  *http.Client
	policy  httpx.Policy
}

func NewHTTPExplainer(baseURL string, timeout time.Duration) *HTTPExplainer {
	return &HTTPExplainer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpx.NewClient(timeout),
		policy:  httpx.Policy{MaxRetries: 1, Backoff: httpx.DefaultBackoff},
	}
}

type explainAttempt struct {
	ID          string    `json:"id"`
	Correct     bool      `json:"correct"`
	Confidence  float64   `json:"confidence"`
	LatencyMs   int64     `json:"latencyMs"`
	ErrorTagIDs []string  `json:"errorTagIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

type explainRequest struct {
	Item           domain.Item    `json:"item"`
	Attempt        explainAttempt `json:"attempt"`
	SelectedOption int            `json:"selectedOption"`
}

// explainResponse accepts "message" as an alias for "explanation".
type explainResponse struct {
	Explanation        string   `json:"explanation"`
	Message            string   `json:"message"`
	FocusConcepts      []string `json:"focusConcepts"`
	SuggestedResources []string `json:"suggestedResources"`
	FollowUpPrompt     string   `json:"followUpPrompt"`
}

func (e *HTTPExplainer) Explain(ctx context.Context, req Request) (domain.AIFeedback, error) {
	tagIDs := req.Attempt.ErrorTagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	body, err := json.Marshal(explainRequest{
		Item: req.Item,
		Attempt: explainAttempt{
			ID:          req.Attempt.ID,
			Correct:     req.Attempt.Correct,
			Confidence:  req.Attempt.Confidence,
			LatencyMs:   req.Attempt.LatencyMs,
			ErrorTagIDs: tagIDs,
			CreatedAt:   req.Attempt.CreatedAt,
		},
		SelectedOption: req.SelectedOption,
	})
	if err != nil {
		return domain.AIFeedback{}, err
	}

	resp, err := httpx.DoWithRetry(ctx, e.client, e.policy, func() (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ai/explain", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	})
	if err != nil {
		return domain.AIFeedback{}, fmt.Errorf("ai tutor request: %w", err)
	}
	defer resp.Body.Close()

	var out explainResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.AIFeedback{}, fmt.Errorf("decode ai tutor response: %w", err)
	}
	text := out.Explanation
	if text == "" {
		text = out.Message
	}
	return domain.AIFeedback{
		Explanation:        text,
		FocusConcepts:      out.FocusConcepts,
		SuggestedResources: out.SuggestedResources,
		FollowUpPrompt:     out.FollowUpPrompt,
	}, nil
}
