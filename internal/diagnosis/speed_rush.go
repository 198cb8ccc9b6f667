package diagnosis

// SpeedRushThresholdMs is the response time (exclusive) under which a wrong
// answer counts as rushed.
const SpeedRushThresholdMs = 2000

// SpeedRushClassifier flags answers submitted too quickly to have read the
// question properly. Zero latency means unmeasured and never matches.
type SpeedRushClassifier struct{}

func (c *SpeedRushClassifier) Name() string { return "speed-rush" }

func (c *SpeedRushClassifier) Classify(in *ClassifyInput) (ErrorCategory, float64) {
	if in.LatencyMs > 0 && in.LatencyMs < SpeedRushThresholdMs {
		return CategorySpeedRush, 0.9
	}
	return "", 0
}
