package domain

// Metrics are percentages in [0, 100] rounded to two decimals.
type Metrics struct {
	CoveragePercent        float64
	NumericExactPercent    float64
	CategoricalDatePercent float64
}

// Thresholds share the shape of Metrics; a metric below its threshold requires review.
type Thresholds Metrics

func (m Metrics) Meets(t Thresholds) bool {
	return m.CoveragePercent >= t.CoveragePercent &&
		m.NumericExactPercent >= t.NumericExactPercent &&
		m.CategoricalDatePercent >= t.CategoricalDatePercent
}

type Evaluation struct {
	Bureau                Bureau
	Metrics               Metrics
	Thresholds            Thresholds
	RequiresManualReview  bool
	AccountsNeedingReview []ParsedAccount
}

// DocumentAnalysis is the parse output of one bureau document together with its quality gate.
type DocumentAnalysis struct {
	ParseResult
	Evaluation
}
