package diagnosis

const (
	// CarelessAccuracyThreshold is the historical accuracy (exclusive) above
	// which a miss is a slip rather than a gap.
	CarelessAccuracyThreshold = 0.80
	// CarelessMinHistory is how many earlier attempts the accuracy needs.
	CarelessMinHistory = 3
)

// CarelessClassifier flags misses on concepts the learner usually gets right.
type CarelessClassifier struct{}

func (c *CarelessClassifier) Name() string { return "careless" }

func (c *CarelessClassifier) Classify(in *ClassifyInput) (ErrorCategory, float64) {
	if in.History.Attempts >= CarelessMinHistory && in.History.Accuracy() > CarelessAccuracyThreshold {
		return CategoryCareless, 0.8
	}
	return "", 0
}
