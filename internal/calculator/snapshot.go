package calculator

import (
	"errors"
	"math"

	"marketlogic/internal/model"
)

// rangeWindow is the 52-week lookback in trading days.
const rangeWindow = 252

// Range52Week scans the most recent 252 trading days and returns the high and low.
func Range52Week(bars []model.Bar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := len(bars) - rangeWindow
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// RangePosition returns where price sits within the high/low band as a
// percentage. Undefined (NaN) when the band has zero width.
func RangePosition(price, high, low float64) float64 {
	if high == low {
		return math.NaN()
	}
	return (price - low) / (high - low) * 100
}

// Snapshot extracts the latest-bar view used by the scorecard: the last
// indicator row plus the 52-week extrema and the 5/50-day volume averages.
func Snapshot(symbol string, bars []model.Bar, rows []model.IndicatorRow) (*model.Snapshot, error) {
	if len(bars) == 0 || len(bars) != len(rows) {
		return nil, errors.New("bars and indicator rows must be non-empty and aligned")
	}

	last := len(bars) - 1
	bar := bars[last]
	row := rows[last]

	high, low, err := Range52Week(bars)
	if err != nil {
		return nil, err
	}

	volumes := model.Volumes(bars)
	vol5 := Mean(tail(volumes, 5))
	vol50 := Mean(tail(volumes, 50))

	return &model.Snapshot{
		Symbol:         symbol,
		Date:           bar.Date,
		Price:          bar.Close,
		MA50:           row.MA50,
		MA100:          row.MA100,
		MA200:          row.MA200,
		Volatility20d:  row.Volatility20d,
		VolZScore:      row.VolZScore,
		ROC20d:         row.ROC20d,
		ROC50d:         row.ROC50d,
		MomentumChange: row.MomentumChange,
		DailyRange:     row.DailyRange,
		WinRate:        row.WinRate,
		VolumeTrend:    row.VolumeTrend,
		High52w:        high,
		Low52w:         low,
		RangePosition:  RangePosition(bar.Close, high, low),
		Volume5d:       vol5,
		Volume50d:      vol50,
	}, nil
}

func tail(x []float64, n int) []float64 {
	if len(x) <= n {
		return x
	}
	return x[len(x)-n:]
}
