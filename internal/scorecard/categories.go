package scorecard

import (
	"fmt"

	"marketlogic/internal/model"
)

// Each category applies fixed thresholds to the snapshot, first match
// wins. Scores are small integers so the verdict strings carry the
// rationale the dashboard shows next to each block.

// scoreTrendMomentum combines trend alignment, 20-day momentum, and
// win-rate consistency into one block.
func scoreTrendMomentum(s *model.Snapshot) model.CategoryScore {
	var score int
	var verdicts []string

	switch {
	case s.Price > s.MA50 && s.MA50 > s.MA200:
		score++
		verdicts = append(verdicts, "Uptrend confirmed: price above both moving averages")
	case s.Price < s.MA50 && s.MA50 < s.MA200:
		score--
		verdicts = append(verdicts, "Downtrend: price below moving averages")
	default:
		verdicts = append(verdicts, "Mixed trend: no clear direction")
	}

	switch {
	case s.ROC20d > 5 && s.MomentumChange > 0:
		score++
		verdicts = append(verdicts, fmt.Sprintf("Strong momentum: up %.1f%% in 20 days and accelerating", s.ROC20d))
	case s.ROC20d < -5 || s.MomentumChange < -2:
		score--
		verdicts = append(verdicts, fmt.Sprintf("Weak momentum: %.1f%% over 20 days and losing steam", s.ROC20d))
	default:
		verdicts = append(verdicts, fmt.Sprintf("Neutral momentum: sideways movement (%+.1f%%)", s.ROC20d))
	}

	switch {
	case s.WinRate > 60:
		score++
		verdicts = append(verdicts, fmt.Sprintf("High consistency: %.1f%% of days positive", s.WinRate))
	case s.WinRate < 40:
		score--
		verdicts = append(verdicts, fmt.Sprintf("Low consistency: only %.1f%% of days positive", s.WinRate))
	default:
		verdicts = append(verdicts, fmt.Sprintf("Moderate consistency: %.1f%% positive days", s.WinRate))
	}

	return model.CategoryScore{Name: "Trend & Momentum", Score: score, Max: 3, Verdicts: verdicts}
}

// scoreBreadth scores the volume trend. The framework displays this block
// out of 3 even though the single check is bounded to ±1; the display max
// is kept as published.
func scoreBreadth(s *model.Snapshot) model.CategoryScore {
	var score int
	var verdict string

	switch {
	case s.VolumeTrend > 5:
		score = 1
		verdict = fmt.Sprintf("Volume expanding: trading activity up %+.1f%%", s.VolumeTrend)
	case s.VolumeTrend < -10:
		score = -1
		verdict = fmt.Sprintf("Volume drying up: activity down %.1f%%", s.VolumeTrend)
	default:
		verdict = fmt.Sprintf("Stable volume: normal activity (%+.1f%%)", s.VolumeTrend)
	}

	return model.CategoryScore{Name: "Breadth & Quality", Score: score, Max: 3, Verdicts: []string{verdict}}
}

// scoreSentiment combines 50-day performance with the 52-week range
// position. Near the top of the range counts against the symbol.
func scoreSentiment(s *model.Snapshot) model.CategoryScore {
	var score int
	var verdicts []string

	switch {
	case s.ROC50d > 10:
		score++
		verdicts = append(verdicts, fmt.Sprintf("Strong performance: up %.1f%% over 50 days", s.ROC50d))
	case s.ROC50d < -10:
		score--
		verdicts = append(verdicts, fmt.Sprintf("Weak performance: down %.1f%% over 50 days", s.ROC50d))
	default:
		verdicts = append(verdicts, fmt.Sprintf("Neutral performance: flat over 50 days (%+.1f%%)", s.ROC50d))
	}

	switch {
	case s.RangePosition > 75:
		score--
		verdicts = append(verdicts, fmt.Sprintf("Overbought: at %.0f%% of the 52-week range", s.RangePosition))
	case s.RangePosition < 25:
		score++
		verdicts = append(verdicts, fmt.Sprintf("Oversold: at %.0f%% of the 52-week range", s.RangePosition))
	default:
		verdicts = append(verdicts, fmt.Sprintf("Fair value: at %.0f%% of the 52-week range", s.RangePosition))
	}

	return model.CategoryScore{Name: "Sentiment & Flows", Score: score, Max: 3, Verdicts: verdicts}
}

// scoreValuation compares the symbol's trailing P/E to the benchmark's.
// Missing ratios score neutral rather than failing the run.
func scoreValuation(f *model.Fundamentals) model.CategoryScore {
	if !f.Complete() {
		return model.CategoryScore{
			Name:     "Valuation & Macro",
			Score:    0,
			Max:      3,
			Verdicts: []string{"Neutral: fundamentals unavailable"},
		}
	}

	relativePE := (*f.TrailingPE / *f.BenchmarkPE - 1) * 100

	var score int
	var verdict string
	switch {
	case relativePE < -15:
		score = 1
		verdict = fmt.Sprintf("Attractive valuation: trading %.0f%% cheaper than the benchmark", -relativePE)
	case relativePE > 25:
		score = -1
		verdict = fmt.Sprintf("Expensive: trading %.0f%% above the benchmark", relativePE)
	default:
		side := "below"
		if relativePE > 0 {
			side = "above"
		}
		verdict = fmt.Sprintf("Fair value: trading %.0f%% %s the benchmark", abs(relativePE), side)
	}

	return model.CategoryScore{Name: "Valuation & Macro", Score: score, Max: 3, Verdicts: []string{verdict}}
}

// scoreVolatilityRegime gives normal regimes credit, penalizes stress,
// and treats unusually calm tape as a warning worth zero.
func scoreVolatilityRegime(s *model.Snapshot) model.CategoryScore {
	var score int
	var verdict string

	switch {
	case s.VolZScore > 1.5:
		score = -1
		verdict = fmt.Sprintf("High stress: volatility %.1f standard deviations above normal", s.VolZScore)
	case s.VolZScore < -1.0:
		score = 0
		verdict = "Complacency warning: volatility unusually low"
	default:
		score = 1
		verdict = fmt.Sprintf("Normal regime: volatility at healthy levels (z=%.2f)", s.VolZScore)
	}

	return model.CategoryScore{Name: "Volatility Regime", Score: score, Max: 1, Verdicts: []string{verdict}}
}

// scoreLiquidity checks whether volume is holding up and prices aren't
// whipping around on weak participation.
func scoreLiquidity(s *model.Snapshot) model.CategoryScore {
	var score int
	var verdict string

	switch {
	case s.VolumeTrend > -3 && s.Volume5d > s.Volume50d*0.9:
		score = 1
		verdict = "Healthy liquidity: easy to trade, stable volume"
	case s.VolumeTrend < -10 || (s.DailyRange > 2.5 && s.WinRate < 40):
		score = -1
		verdict = "Liquidity stress: low volume or erratic prices"
	default:
		verdict = "Normal liquidity: standard trading conditions"
	}

	return model.CategoryScore{Name: "Liquidity", Score: score, Max: 1, Verdicts: []string{verdict}}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
