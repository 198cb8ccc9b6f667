package diagnosis

import (
	"context"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
)

// Service runs the rules and, when they are inconclusive, the optional LLM
// diagnoser.
type Service struct {
	classifiers []Classifier
	diagnoser   *Diagnoser
	log         *logger.Logger
}

// NewService creates a service. A nil provider leaves only the rules.
func NewService(provider llm.Provider, log *logger.Logger) *Service {
	s := &Service{
		classifiers: DefaultClassifiers(),
		log:         logger.OrNop(log).With("component", "diagnosis"),
	}
	if provider != nil {
		s.diagnoser = NewDiagnoser(provider, DefaultDiagnoserConfig())
	}
	return s
}

// Suggest diagnoses a wrong answer against the tag vocabulary. Rule results
// whose tag is not in the vocabulary are dropped. LLM failures degrade to
// an unclassified result.
func (s *Service) Suggest(ctx context.Context, in *ClassifyInput, tags []domain.ErrorTag) *Result {
	known := make(map[string]bool, len(tags))
	for _, t := range tags {
		known[t.ID] = true
	}

	if cat, conf, name := RunClassifiers(s.classifiers, in); cat != "" {
		res := &Result{Category: cat, Confidence: conf, ClassifierName: name}
		if tag := TagFor(cat); known[tag] {
			res.TagIDs = []string{tag}
		}
		return res
	}

	if s.diagnoser != nil && len(tags) > 0 {
		res, err := s.diagnoser.Diagnose(ctx, in, tags)
		if err == nil {
			return res
		}
		s.log.Warn("llm diagnosis failed", "item_id", in.Item.ID, "error", err)
	}

	return &Result{Category: CategoryUnclassified, ClassifierName: "none"}
}

// HistoryFor summarizes attempts on the same concept as item, falling back
// to the item itself when it has no concept.
func HistoryFor(item domain.Item, items map[string]domain.Item, attempts []domain.Attempt) History {
	var h History
	for _, a := range attempts {
		match := a.ItemID == item.ID
		if !match && item.ConceptID != "" {
			other, ok := items[a.ItemID]
			match = ok && other.ConceptID == item.ConceptID
		}
		if !match {
			continue
		}
		h.Attempts++
		if a.Correct {
			h.Correct++
		}
	}
	return h
}
