package calculator

import "math"

// Rolling-window helpers over float64 columns. All of them use trailing
// windows ending at the current index and mark rows with insufficient
// history as NaN. NaN inputs inside a window make the output NaN, so
// undefined values propagate through chained derivations instead of
// producing misleading numbers.

// SMA computes the simple moving average over the trailing window.
func SMA(x []float64, window int) []float64 {
	out := nanSlice(len(x))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(x); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(x[j]) {
				ok = false
				break
			}
			sum += x[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RollingStd computes the trailing sample standard deviation. Windows
// smaller than 2 samples are undefined.
func RollingStd(x []float64, window int) []float64 {
	out := nanSlice(len(x))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(x); i++ {
		mean := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(x[j]) {
				ok = false
				break
			}
			mean += x[j]
		}
		if !ok {
			continue
		}
		mean /= float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := x[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// PctChange computes (x[i]-x[i-lag])/x[i-lag]. Zero or undefined
// denominators yield NaN.
func PctChange(x []float64, lag int) []float64 {
	out := nanSlice(len(x))
	if lag <= 0 {
		return out
	}
	for i := lag; i < len(x); i++ {
		prev := x[i-lag]
		if math.IsNaN(prev) || math.IsNaN(x[i]) || prev == 0 {
			continue
		}
		out[i] = (x[i] - prev) / prev
	}
	return out
}

// Diff computes the first difference x[i]-x[i-1].
func Diff(x []float64) []float64 {
	out := nanSlice(len(x))
	for i := 1; i < len(x); i++ {
		if math.IsNaN(x[i]) || math.IsNaN(x[i-1]) {
			continue
		}
		out[i] = x[i] - x[i-1]
	}
	return out
}

// RollingCountPositive counts strictly positive values over the trailing
// window. NaN entries count as non-positive, matching how the win rate
// treats the undefined first return.
func RollingCountPositive(x []float64, window int) []float64 {
	out := nanSlice(len(x))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(x); i++ {
		n := 0.0
		for j := i - window + 1; j <= i; j++ {
			if x[j] > 0 {
				n++
			}
		}
		out[i] = n
	}
	return out
}

// Mean returns the arithmetic mean of x, or NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// zScore computes (value-mean)/std elementwise, NaN where any input is
// undefined or the deviation is zero.
func zScore(value, mean, std []float64) []float64 {
	out := nanSlice(len(value))
	for i := range value {
		if math.IsNaN(value[i]) || math.IsNaN(mean[i]) || math.IsNaN(std[i]) || std[i] == 0 {
			continue
		}
		out[i] = (value[i] - mean[i]) / std[i]
	}
	return out
}

func scale(x []float64, factor float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * factor
	}
	return out
}
