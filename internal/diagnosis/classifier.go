package diagnosis

// Classifier is one rule. It returns a category and confidence, or ("", 0)
// when the rule does not apply.
type Classifier interface {
	Name() string
	Classify(in *ClassifyInput) (ErrorCategory, float64)
}

// DefaultClassifiers returns the rules in priority order. A fast miss is a
// rush even on a strong concept, and a strong concept makes a confident
// miss a slip.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&SpeedRushClassifier{},
		&CarelessClassifier{},
		&ConfidentMissClassifier{},
	}
}

// RunClassifiers returns the first matching rule, or ("", 0, "").
func RunClassifiers(classifiers []Classifier, in *ClassifyInput) (ErrorCategory, float64, string) {
	for _, c := range classifiers {
		if cat, conf := c.Classify(in); cat != "" {
			return cat, conf, c.Name()
		}
	}
	return "", 0, ""
}

// categoryTags maps rule categories onto the built-in error tag vocabulary.
var categoryTags = map[ErrorCategory]string{
	CategorySpeedRush:     "misread",
	CategoryCareless:      "careless_mistake",
	CategoryMisconception: "conceptual_misunderstanding",
}

// TagFor returns the error tag ID for a category, or "".
func TagFor(cat ErrorCategory) string {
	return categoryTags[cat]
}
