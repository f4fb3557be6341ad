// Package scorecard turns a market snapshot into the six-block Fosback
// market logic scorecard and a discrete recommendation.
package scorecard

import (
	"fmt"

	"marketlogic/internal/model"
)

// MaxScore is the framework's published block maximum (3+3+3+3+1+1).
// The blocks as actually scored cannot reach it: breadth and valuation
// are single ±1 checks despite their /3 display. The published figure is
// kept so normalized scores match the original framework's scale.
const MaxScore = 14

// normalizedRange maps the raw sum onto the -5..+5 display scale.
const normalizedRange = 5.0

// breakpoints maps a normalized score to a recommendation, evaluated
// high to low, first match wins.
var breakpoints = []struct {
	Min float64
	Rec model.Recommendation
}{
	{3, model.StrongBuy},
	{1, model.BuyHold},
	{-1, model.HoldReduce},
	{-3, model.ReduceExit},
}

// mapRecommendation maps a normalized score to its action label.
func mapRecommendation(normalized float64) model.Recommendation {
	for _, b := range breakpoints {
		if normalized >= b.Min {
			return b.Rec
		}
	}
	return model.StrongSell
}

// Evaluate scores the snapshot across all six categories and aggregates
// the result. The snapshot must carry a value in every scored field;
// fundamentals may be missing and degrade to a neutral valuation block.
func Evaluate(snap *model.Snapshot, fund *model.Fundamentals) (*model.Scorecard, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate scorecard: %w", err)
	}

	categories := []model.CategoryScore{
		scoreTrendMomentum(snap),
		scoreBreadth(snap),
		scoreSentiment(snap),
		scoreValuation(fund),
		scoreVolatilityRegime(snap),
		scoreLiquidity(snap),
	}

	raw := 0
	for _, c := range categories {
		raw += c.Score
	}
	normalized := float64(raw) / MaxScore * normalizedRange

	return &model.Scorecard{
		Categories:     categories,
		Raw:            raw,
		MaxScore:       MaxScore,
		Normalized:     normalized,
		Recommendation: mapRecommendation(normalized),
	}, nil
}
