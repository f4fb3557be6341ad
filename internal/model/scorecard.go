package model

// Fundamentals holds the trailing P/E ratios used by the valuation block.
// A nil pointer means the figure was unavailable from the provider.
type Fundamentals struct {
	TrailingPE  *float64 `json:"trailing_pe,omitempty"`
	BenchmarkPE *float64 `json:"benchmark_pe,omitempty"`
}

// Complete reports whether both ratios are available.
func (f *Fundamentals) Complete() bool {
	return f != nil && f.TrailingPE != nil && f.BenchmarkPE != nil
}

// CategoryScore is one scored block of the scorecard.
type CategoryScore struct {
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	Max      int      `json:"max"`
	Verdicts []string `json:"verdicts"`
}

// Recommendation is the final action label derived from the normalized score.
type Recommendation string

const (
	StrongBuy  Recommendation = "Strong Buy"
	BuyHold    Recommendation = "Buy / Hold Full Position"
	HoldReduce Recommendation = "Hold / Reduce to 50%"
	ReduceExit Recommendation = "Reduce / Consider Exit"
	StrongSell Recommendation = "Strong Sell"
)

// Scorecard is the aggregated result of all category scores.
type Scorecard struct {
	Categories     []CategoryScore `json:"categories"`
	Raw            int             `json:"raw"`
	MaxScore       int             `json:"max_score"`
	Normalized     float64         `json:"normalized"` // raw/max_score scaled to the -5..+5 display range
	Recommendation Recommendation  `json:"recommendation"`
}
