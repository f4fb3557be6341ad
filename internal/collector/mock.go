package collector

import (
	"context"
	"math"
	"time"

	"marketlogic/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars       []model.Bar
	TrailingPE float64
	BarsErr    error
	PEErr      error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, lookbackDays int) ([]model.Bar, error) {
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	// Roughly 252 trading days per 365 calendar days.
	return GenerateBars(100, lookbackDays*252/365), nil
}

func (m *MockFetcher) FetchTrailingPE(_ context.Context, _ string) (float64, error) {
	if m.PEErr != nil {
		return 0, m.PEErr
	}
	return m.TrailingPE, nil
}

// GenerateBars produces a deterministic synthetic series with a gentle
// uptrend, a slow oscillation, and varying volume.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		drift := basePrice * 0.0004 * float64(i)
		wave := basePrice * 0.03 * math.Sin(float64(i)/15)
		p := basePrice + drift + wave
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.006,
			Low:    p * 0.994,
			Close:  p,
			Volume: 1_000_000 + 50_000*math.Sin(float64(i)/10)*10,
		}
	}
	return bars
}
