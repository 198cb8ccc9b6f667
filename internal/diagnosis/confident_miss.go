package diagnosis

// ConfidentMissThreshold is the self-reported confidence (inclusive) at which
// a wrong answer points to a misunderstanding rather than a guess.
const ConfidentMissThreshold = 0.8

// ConfidentMissClassifier flags wrong answers given with high confidence.
type ConfidentMissClassifier struct{}

func (c *ConfidentMissClassifier) Name() string { return "confident-miss" }

func (c *ConfidentMissClassifier) Classify(in *ClassifyInput) (ErrorCategory, float64) {
	if in.Confidence >= ConfidentMissThreshold {
		return CategoryMisconception, 0.7
	}
	return "", 0
}
