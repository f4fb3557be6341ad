package scorecard

import (
	"math"
	"reflect"
	"testing"
	"time"

	"marketlogic/internal/model"
)

func pe(v float64) *float64 { return &v }

// uptrendSnapshot is a fully favorable technical picture.
func uptrendSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Symbol:         "TEST",
		Date:           time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Price:          110,
		MA50:           105,
		MA100:          102,
		MA200:          100,
		Volatility20d:  15,
		VolZScore:      0.2,
		ROC20d:         6,
		ROC50d:         12,
		MomentumChange: 0.5,
		DailyRange:     1.0,
		WinRate:        65,
		VolumeTrend:    6,
		High52w:        112,
		Low52w:         80,
		RangePosition:  80,
		Volume5d:       100,
		Volume50d:      95,
	}
}

func TestEvaluate_Uptrend(t *testing.T) {
	card, err := Evaluate(uptrendSnapshot(), &model.Fundamentals{})
	if err != nil {
		t.Fatal(err)
	}

	wantScores := map[string]int{
		"Trend & Momentum":  3,
		"Breadth & Quality": 1,
		"Sentiment & Flows": 0, // strong performance offset by an overbought range position
		"Valuation & Macro": 0,
		"Volatility Regime": 1,
		"Liquidity":         1,
	}
	for _, c := range card.Categories {
		if want, ok := wantScores[c.Name]; !ok {
			t.Errorf("unexpected category %q", c.Name)
		} else if c.Score != want {
			t.Errorf("%s: expected %+d, got %+d", c.Name, want, c.Score)
		}
	}
	if card.Raw != 6 {
		t.Errorf("expected raw 6, got %d", card.Raw)
	}
	if math.Abs(card.Normalized-6.0/14*5) > 1e-9 {
		t.Errorf("expected normalized %.4f, got %.4f", 6.0/14*5, card.Normalized)
	}
	if card.Recommendation != model.BuyHold {
		t.Errorf("expected %q, got %q", model.BuyHold, card.Recommendation)
	}
}

func TestEvaluate_AllBlocksNegative(t *testing.T) {
	snap := uptrendSnapshot()
	snap.Price = 80
	snap.MA50 = 90
	snap.MA200 = 100
	snap.ROC20d = -10
	snap.MomentumChange = -3
	snap.WinRate = 30
	snap.VolumeTrend = -15
	snap.ROC50d = -20
	snap.RangePosition = 80
	snap.VolZScore = 2.0
	snap.DailyRange = 3.0

	fund := &model.Fundamentals{TrailingPE: pe(30), BenchmarkPE: pe(20)}
	card, err := Evaluate(snap, fund)
	if err != nil {
		t.Fatal(err)
	}

	if card.Raw != -9 {
		t.Errorf("expected raw -9, got %d", card.Raw)
	}
	if math.Abs(card.Normalized-(-9.0/14*5)) > 1e-9 {
		t.Errorf("expected normalized %.4f, got %.4f", -9.0/14*5, card.Normalized)
	}
	if card.Recommendation != model.StrongSell {
		t.Errorf("expected %q, got %q", model.StrongSell, card.Recommendation)
	}
}

func TestScoreValuation(t *testing.T) {
	tests := []struct {
		name string
		fund *model.Fundamentals
		want int
	}{
		{"cheap vs benchmark", &model.Fundamentals{TrailingPE: pe(15), BenchmarkPE: pe(20)}, 1}, // relative P/E -25%
		{"expensive vs benchmark", &model.Fundamentals{TrailingPE: pe(30), BenchmarkPE: pe(20)}, -1},
		{"fair value", &model.Fundamentals{TrailingPE: pe(22), BenchmarkPE: pe(20)}, 0},
		{"ticker P/E missing", &model.Fundamentals{BenchmarkPE: pe(20)}, 0},
		{"benchmark P/E missing", &model.Fundamentals{TrailingPE: pe(15)}, 0},
		{"nil fundamentals", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreValuation(tt.fund)
			if got.Score != tt.want {
				t.Errorf("expected %+d, got %+d", tt.want, got.Score)
			}
		})
	}
}

func TestScoreVolatilityRegime(t *testing.T) {
	snap := uptrendSnapshot()

	snap.VolZScore = 1.6
	if got := scoreVolatilityRegime(snap).Score; got != -1 {
		t.Errorf("high stress: expected -1, got %+d", got)
	}
	snap.VolZScore = -1.2
	if got := scoreVolatilityRegime(snap).Score; got != 0 {
		t.Errorf("complacency: expected 0, got %+d", got)
	}
	snap.VolZScore = 0.5
	if got := scoreVolatilityRegime(snap).Score; got != 1 {
		t.Errorf("normal regime: expected +1, got %+d", got)
	}
}

func TestScoreLiquidity(t *testing.T) {
	snap := uptrendSnapshot()

	// Healthy: volume trend above -3 and 5d volume within 90% of 50d.
	snap.VolumeTrend = 0
	snap.Volume5d = 100
	snap.Volume50d = 100
	if got := scoreLiquidity(snap).Score; got != 1 {
		t.Errorf("healthy: expected +1, got %+d", got)
	}

	// Stress via erratic prices on a weak tape.
	snap.VolumeTrend = -5
	snap.Volume5d = 50
	snap.DailyRange = 3.0
	snap.WinRate = 35
	if got := scoreLiquidity(snap).Score; got != -1 {
		t.Errorf("stress: expected -1, got %+d", got)
	}

	// Neither healthy nor stressed.
	snap.DailyRange = 1.0
	if got := scoreLiquidity(snap).Score; got != 0 {
		t.Errorf("normal: expected 0, got %+d", got)
	}
}

func TestMapRecommendation_Boundaries(t *testing.T) {
	tests := []struct {
		normalized float64
		want       model.Recommendation
	}{
		{5, model.StrongBuy},
		{3, model.StrongBuy},
		{2.99, model.BuyHold},
		{1, model.BuyHold},
		{0, model.HoldReduce},
		{-1, model.HoldReduce},
		{-1.01, model.ReduceExit},
		{-3, model.ReduceExit},
		{-3.01, model.StrongSell},
		{-5, model.StrongSell},
	}
	for _, tt := range tests {
		if got := mapRecommendation(tt.normalized); got != tt.want {
			t.Errorf("normalized %.2f: expected %q, got %q", tt.normalized, tt.want, got)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	snap := uptrendSnapshot()
	fund := &model.Fundamentals{TrailingPE: pe(18), BenchmarkPE: pe(20)}

	first, err := Evaluate(snap, fund)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Evaluate(snap, fund)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("evaluating the same snapshot twice must yield identical scorecards")
	}
}

func TestEvaluate_RejectsUndefinedSnapshot(t *testing.T) {
	snap := uptrendSnapshot()
	snap.WinRate = math.NaN()

	if _, err := Evaluate(snap, nil); err == nil {
		t.Error("expected rejection of a snapshot with undefined fields")
	}
}
