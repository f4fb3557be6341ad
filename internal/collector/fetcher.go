package collector

import (
	"context"

	"marketlogic/internal/model"
)

// Fetcher defines the interface for fetching market and fundamental data.
// Implementations return cleaned daily bars in ascending date order with
// null bars dropped.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, lookbackDays int) ([]model.Bar, error)
	FetchTrailingPE(ctx context.Context, symbol string) (float64, error)
	Name() string
}
