package analyzer

import (
	"context"
	"errors"
	"testing"

	"marketlogic/internal/calculator"
	"marketlogic/internal/collector"
)

func TestAnalyze_Success(t *testing.T) {
	fetcher := &collector.MockFetcher{TrailingPE: 20}
	a := New(fetcher, "SPY", nil)

	res, err := a.Analyze(context.Background(), "  aapl ", 730)
	if err != nil {
		t.Fatal(err)
	}

	if res.Ticker != "AAPL" {
		t.Errorf("expected normalized ticker AAPL, got %q", res.Ticker)
	}
	if res.ID == "" {
		t.Error("expected a non-empty analysis ID")
	}
	if res.Bars == 0 {
		t.Error("expected a non-zero bar count")
	}
	if res.Snapshot == nil || res.Scorecard == nil {
		t.Fatal("expected snapshot and scorecard to be populated")
	}
	if res.Snapshot.Symbol != "AAPL" {
		t.Errorf("snapshot symbol: expected AAPL, got %q", res.Snapshot.Symbol)
	}
	if !res.Fundamentals.Complete() {
		t.Error("expected complete fundamentals when the provider returns both ratios")
	}
	if *res.Fundamentals.TrailingPE != 20 {
		t.Errorf("expected trailing P/E 20, got %v", *res.Fundamentals.TrailingPE)
	}
	if res.Scorecard.Recommendation == "" {
		t.Error("expected a recommendation")
	}
	if len(res.Chart) == 0 || len(res.Chart) > chartPoints {
		t.Errorf("expected 1..%d chart points, got %d", chartPoints, len(res.Chart))
	}
	if res.AsOf.IsZero() {
		t.Error("expected as-of date from the last bar")
	}
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: collector.GenerateBars(100, 150)}
	a := New(fetcher, "SPY", nil)

	_, err := a.Analyze(context.Background(), "AAPL", 730)
	if !errors.Is(err, calculator.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyze_ProviderFailure(t *testing.T) {
	fetcher := &collector.MockFetcher{BarsErr: errors.New("connection refused")}
	a := New(fetcher, "SPY", nil)

	_, err := a.Analyze(context.Background(), "AAPL", 730)

	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected a RetrievalError, got %v", err)
	}
	if re.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL on the error, got %q", re.Ticker)
	}
}

func TestAnalyze_FundamentalsDegrade(t *testing.T) {
	fetcher := &collector.MockFetcher{PEErr: errors.New("quote summary unavailable")}
	a := New(fetcher, "SPY", nil)

	res, err := a.Analyze(context.Background(), "AAPL", 730)
	if err != nil {
		t.Fatalf("missing fundamentals must not fail the run: %v", err)
	}
	if res.Fundamentals.Complete() {
		t.Error("expected incomplete fundamentals")
	}

	for _, c := range res.Scorecard.Categories {
		if c.Name == "Valuation & Macro" && c.Score != 0 {
			t.Errorf("expected neutral valuation block, got %+d", c.Score)
		}
	}
}

func TestAnalyze_ChartWarmupNulls(t *testing.T) {
	// 300 bars: chart shows the trailing 252, whose first entries are
	// still inside the 200-day moving average warm-up.
	fetcher := &collector.MockFetcher{Bars: collector.GenerateBars(100, 300)}
	a := New(fetcher, "SPY", nil)

	res, err := a.Analyze(context.Background(), "AAPL", 730)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chart) != 252 {
		t.Fatalf("expected 252 chart points, got %d", len(res.Chart))
	}

	first, last := res.Chart[0], res.Chart[len(res.Chart)-1]
	if first.MA200 != nil {
		t.Error("expected a null 200-day average inside the warm-up window")
	}
	if last.MA50 == nil || last.MA200 == nil {
		t.Error("expected populated moving averages on the last chart point")
	}
	if last.Close <= 0 {
		t.Errorf("expected a positive close, got %v", last.Close)
	}
}
