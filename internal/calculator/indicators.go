package calculator

import (
	"errors"
	"fmt"
	"math"

	"marketlogic/internal/model"
)

// MinBars is the minimum series length required for a scoreable analysis.
// The longest trailing window (MA200) must be defined on the latest bar.
const MinBars = 200

// ErrInsufficientData is returned when a series is too short to score.
var ErrInsufficientData = errors.New("insufficient historical data")

// tradingDaysPerYear annualizes the 20-day return volatility.
const tradingDaysPerYear = 252

// Derive computes the full indicator set for each bar. The result is
// aligned to bars; rows whose windows reach past the start of the series
// hold NaN in the affected fields.
func Derive(bars []model.Bar) ([]model.IndicatorRow, error) {
	if len(bars) < MinBars {
		return nil, fmt.Errorf("%w: got %d bars, need at least %d", ErrInsufficientData, len(bars), MinBars)
	}

	closes := model.Closes(bars)
	volumes := model.Volumes(bars)

	ma50 := SMA(closes, 50)
	ma100 := SMA(closes, 100)
	ma200 := SMA(closes, 200)

	volumeMA20 := SMA(volumes, 20)
	volumeRatio := divide(volumes, volumeMA20)
	volumeTrend := scale(PctChange(volumeMA20, 1), 100)

	returns := PctChange(closes, 1)
	vol20 := scale(RollingStd(returns, 20), math.Sqrt(tradingDaysPerYear)*100)
	volMA60 := SMA(vol20, 60)
	volZ := zScore(vol20, volMA60, RollingStd(vol20, 60))

	roc20 := scale(PctChange(closes, 20), 100)
	roc50 := scale(PctChange(closes, 50), 100)
	momentumChange := Diff(roc20)

	dailyRange := make([]float64, len(bars))
	for i, b := range bars {
		if b.Close == 0 {
			dailyRange[i] = math.NaN()
			continue
		}
		dailyRange[i] = (b.High - b.Low) / b.Close * 100
	}
	rangeMA20 := SMA(dailyRange, 20)
	rangeZ := zScore(dailyRange, rangeMA20, RollingStd(dailyRange, 20))

	winRate := scale(RollingCountPositive(returns, 20), 100.0/20.0)

	rows := make([]model.IndicatorRow, len(bars))
	for i := range bars {
		rows[i] = model.IndicatorRow{
			MA50:           ma50[i],
			MA100:          ma100[i],
			MA200:          ma200[i],
			VolumeMA20:     volumeMA20[i],
			VolumeRatio:    volumeRatio[i],
			Return:         returns[i],
			Volatility20d:  vol20[i],
			VolatilityMA60: volMA60[i],
			ROC20d:         roc20[i],
			ROC50d:         roc50[i],
			MomentumChange: momentumChange[i],
			DailyRange:     dailyRange[i],
			RangeMA20:      rangeMA20[i],
			RangeZScore:    rangeZ[i],
			VolumeTrend:    volumeTrend[i],
			VolZScore:      volZ[i],
			WinRate:        winRate[i],
		}
	}
	return rows, nil
}

func divide(num, den []float64) []float64 {
	out := nanSlice(len(num))
	for i := range num {
		if math.IsNaN(num[i]) || math.IsNaN(den[i]) || den[i] == 0 {
			continue
		}
		out[i] = num[i] / den[i]
	}
	return out
}
