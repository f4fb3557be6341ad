// Package analyzer runs the full analysis pipeline for one ticker:
// fetch daily bars, derive indicators, extract the latest snapshot,
// score it, and assemble the dashboard result.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketlogic/internal/calculator"
	"marketlogic/internal/collector"
	"marketlogic/internal/metrics"
	"marketlogic/internal/model"
	"marketlogic/internal/scorecard"
)

// chartPoints is how many trailing bars the dashboard chart shows.
const chartPoints = 252

// RetrievalError wraps a market data provider failure with its ticker.
type RetrievalError struct {
	Ticker string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve data for %s: %v", e.Ticker, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ChartPoint is one entry of the trailing price/moving-average chart.
// Moving averages still inside their warm-up window are null.
type ChartPoint struct {
	Date  string   `json:"date"`
	Close float64  `json:"close"`
	MA50  *float64 `json:"ma50"`
	MA200 *float64 `json:"ma200"`
}

// Result is the complete outcome of one analysis run.
type Result struct {
	ID           string              `json:"id"`
	Ticker       string              `json:"ticker"`
	AsOf         time.Time           `json:"as_of"`
	Bars         int                 `json:"bars"`
	Snapshot     *model.Snapshot     `json:"snapshot"`
	Fundamentals *model.Fundamentals `json:"fundamentals"`
	Scorecard    *model.Scorecard    `json:"scorecard"`
	Chart        []ChartPoint        `json:"chart"`
}

// Analyzer orchestrates one synchronous pipeline run per call. It keeps
// no state between runs.
type Analyzer struct {
	fetcher   collector.Fetcher
	benchmark string
	metrics   *metrics.Metrics
}

// New creates an Analyzer. benchmark is the symbol whose trailing P/E
// anchors the valuation block (typically a broad index ETF). metrics may
// be nil.
func New(fetcher collector.Fetcher, benchmark string, m *metrics.Metrics) *Analyzer {
	return &Analyzer{fetcher: fetcher, benchmark: benchmark, metrics: m}
}

// Analyze runs the pipeline for one ticker over the trailing lookbackDays
// calendar days.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, lookbackDays int) (*Result, error) {
	started := time.Now()
	res, err := a.analyze(ctx, ticker, lookbackDays)
	a.metrics.ObserveAnalysis(time.Since(started).Seconds())

	switch {
	case err == nil:
		a.metrics.ObserveOutcome(metrics.OutcomeOK)
	case errors.Is(err, calculator.ErrInsufficientData):
		a.metrics.ObserveOutcome(metrics.OutcomeInsufficientData)
	case isRetrieval(err):
		a.metrics.ObserveOutcome(metrics.OutcomeRetrievalFailure)
	default:
		a.metrics.ObserveOutcome(metrics.OutcomeError)
	}
	return res, err
}

func (a *Analyzer) analyze(ctx context.Context, ticker string, lookbackDays int) (*Result, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	fetchStart := time.Now()
	bars, err := a.fetcher.FetchDailyBars(ctx, ticker, lookbackDays)
	a.metrics.ObserveFetch(time.Since(fetchStart).Seconds())
	if err != nil {
		return nil, &RetrievalError{Ticker: ticker, Err: err}
	}

	rows, err := calculator.Derive(bars)
	if err != nil {
		return nil, fmt.Errorf("derive indicators for %s: %w", ticker, err)
	}

	snap, err := calculator.Snapshot(ticker, bars, rows)
	if err != nil {
		return nil, fmt.Errorf("extract snapshot for %s: %w", ticker, err)
	}

	fund := a.fetchFundamentals(ctx, ticker)

	card, err := scorecard.Evaluate(snap, fund)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", ticker, err)
	}

	return &Result{
		ID:           uuid.NewString(),
		Ticker:       ticker,
		AsOf:         snap.Date,
		Bars:         len(bars),
		Snapshot:     snap,
		Fundamentals: fund,
		Scorecard:    card,
		Chart:        buildChart(bars, rows),
	}, nil
}

// fetchFundamentals degrades to nil ratios on any provider failure; an
// unavailable P/E scores the valuation block neutral rather than failing
// the run.
func (a *Analyzer) fetchFundamentals(ctx context.Context, ticker string) *model.Fundamentals {
	fund := &model.Fundamentals{}

	pe, err := a.fetcher.FetchTrailingPE(ctx, ticker)
	if err != nil {
		log.Printf("[WARN] trailing P/E for %s unavailable: %v", ticker, err)
		return fund
	}
	fund.TrailingPE = &pe

	benchPE, err := a.fetcher.FetchTrailingPE(ctx, a.benchmark)
	if err != nil {
		log.Printf("[WARN] benchmark P/E for %s unavailable: %v", a.benchmark, err)
		return fund
	}
	fund.BenchmarkPE = &benchPE
	return fund
}

func buildChart(bars []model.Bar, rows []model.IndicatorRow) []ChartPoint {
	start := len(bars) - chartPoints
	if start < 0 {
		start = 0
	}
	points := make([]ChartPoint, 0, len(bars)-start)
	for i := start; i < len(bars); i++ {
		points = append(points, ChartPoint{
			Date:  bars[i].Date.Format("2006-01-02"),
			Close: bars[i].Close,
			MA50:  floatPtr(rows[i].MA50),
			MA200: floatPtr(rows[i].MA200),
		})
	}
	return points
}

// floatPtr maps NaN to nil so warm-up rows marshal as JSON null.
func floatPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func isRetrieval(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}
