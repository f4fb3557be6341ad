package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// IndicatorRow holds all derived indicator values for one bar.
// Values whose trailing window extends past the start of the series are NaN.
type IndicatorRow struct {
	MA50           float64
	MA100          float64
	MA200          float64
	VolumeMA20     float64
	VolumeRatio    float64
	Return         float64
	Volatility20d  float64
	VolatilityMA60 float64
	ROC20d         float64
	ROC50d         float64
	MomentumChange float64
	DailyRange     float64
	RangeMA20      float64
	RangeZScore    float64
	VolumeTrend    float64
	VolZScore      float64
	WinRate        float64
}

// Snapshot is the latest-bar view used for scoring and display.
type Snapshot struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`

	Price  float64 `json:"price"`
	MA50   float64 `json:"ma50"`
	MA100  float64 `json:"ma100"`
	MA200  float64 `json:"ma200"`

	Volatility20d  float64 `json:"volatility_20d"`
	VolZScore      float64 `json:"vol_z_score"`
	ROC20d         float64 `json:"roc_20d"`
	ROC50d         float64 `json:"roc_50d"`
	MomentumChange float64 `json:"momentum_change"`
	DailyRange     float64 `json:"daily_range"`
	WinRate        float64 `json:"win_rate"`
	VolumeTrend    float64 `json:"volume_trend"`

	High52w       float64 `json:"high_52w"`
	Low52w        float64 `json:"low_52w"`
	RangePosition float64 `json:"range_position"` // 0~100 within the 52-week range
	Volume5d      float64 `json:"volume_5d"`
	Volume50d     float64 `json:"volume_50d"`
}

// Validate checks that every field the scorecard needs carries a value.
// A NaN here means the series did not have enough history for that window.
func (s *Snapshot) Validate() error {
	fields := map[string]float64{
		"price":           s.Price,
		"ma50":            s.MA50,
		"ma100":           s.MA100,
		"ma200":           s.MA200,
		"volatility_20d":  s.Volatility20d,
		"vol_z_score":     s.VolZScore,
		"roc_20d":         s.ROC20d,
		"roc_50d":         s.ROC50d,
		"momentum_change": s.MomentumChange,
		"daily_range":     s.DailyRange,
		"win_rate":        s.WinRate,
		"volume_trend":    s.VolumeTrend,
		"high_52w":        s.High52w,
		"low_52w":         s.Low52w,
		"range_position":  s.RangePosition,
		"volume_5d":       s.Volume5d,
		"volume_50d":      s.Volume50d,
	}
	var missing []string
	for name, v := range fields {
		if math.IsNaN(v) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("snapshot has undefined fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
