package diagnosis

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/llm"
)

type DiagnoserConfig struct {
	MaxTokens   int
	Temperature float64
}

func DefaultDiagnoserConfig() DiagnoserConfig {
	return DiagnoserConfig{MaxTokens: 256, Temperature: 0.3}
}

// Diagnoser asks a model to pick an error tag from the learner's vocabulary.
type Diagnoser struct {
	provider llm.Provider
	cfg      DiagnoserConfig
}

func NewDiagnoser(provider llm.Provider, cfg DiagnoserConfig) *Diagnoser {
	return &Diagnoser{provider: provider, cfg: cfg}
}

type diagnosisOutput struct {
	TagID      *string `json:"tag_id"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type promptData struct {
	Stem     string
	Correct  string
	Selected string
	Tags     []domain.ErrorTag
}

// Diagnose returns a misconception result when the model names a known tag,
// and an unclassified result otherwise.
func (d *Diagnoser) Diagnose(ctx context.Context, in *ClassifyInput, tags []domain.ErrorTag) (*Result, error) {
	var buf bytes.Buffer
	err := diagnosisUserTemplate.Execute(&buf, promptData{
		Stem:     in.Item.Stem,
		Correct:  in.Item.CorrectOption(),
		Selected: in.Item.Option(in.SelectedOption),
		Tags:     tags,
	})
	if err != nil {
		return nil, fmt.Errorf("build diagnosis prompt: %w", err)
	}

	req := llm.Prompt(diagnosisSystemPrompt, buf.String())
	req.Schema = DiagnosisSchema
	req.MaxTokens = d.cfg.MaxTokens
	req.Temperature = d.cfg.Temperature

	resp, err := d.provider.Generate(llm.WithPurpose(ctx, "error-diagnosis"), req)
	if err != nil {
		return nil, fmt.Errorf("LLM diagnosis failed: %w", err)
	}
	var out diagnosisOutput
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}

	res := &Result{
		Category:       CategoryUnclassified,
		Confidence:     out.Confidence,
		ClassifierName: "llm",
		Reasoning:      out.Reasoning,
	}
	if out.TagID == nil {
		return res, nil
	}
	for _, t := range tags {
		if t.ID == *out.TagID {
			res.Category = CategoryMisconception
			res.TagIDs = []string{t.ID}
			return res, nil
		}
	}
	// Unknown IDs are treated as no match.
	return res, nil
}

const diagnosisSystemPrompt = `You review wrong answers to multiple-choice study questions.
Pick the single error tag from the list that best explains the mistake.
- Only use IDs from the list. Never invent one.
- Return null for tag_id when no tag clearly fits.
- Keep reasoning to one sentence.`

var diagnosisUserTemplate = template.Must(template.New("diagnosis").Parse(`Question: {{.Stem}}
Correct answer: {{.Correct}}
Learner's answer: {{.Selected}}

Error tags:
{{range .Tags}}- {{.ID}}: {{.Name}}{{if .Notes}} ({{.Notes}}){{end}}
{{end}}`))
