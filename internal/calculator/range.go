package calculator

import (
	"errors"
	"math"
)

// RollingHigh returns the highest of the last `period` values, excluding the
// final value so breakout checks can compare the latest close against the
// prior range.
func RollingHigh(highs []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(highs) < period+1 {
		return 0, errors.New("not enough data for rolling high")
	}
	window := highs[len(highs)-1-period : len(highs)-1]
	high := math.Inf(-1)
	for _, h := range window {
		if h > high {
			high = h
		}
	}
	return high, nil
}

// HighestSince returns the highest value at or after index `from`.
func HighestSince(values []float64, from int) float64 {
	if from < 0 {
		from = 0
	}
	high := math.Inf(-1)
	for i := from; i < len(values); i++ {
		if values[i] > high {
			high = values[i]
		}
	}
	return high
}

// AverageVolume returns the mean of the last `period` volumes, excluding the
// final bar (the bar under evaluation).
func AverageVolume(volumes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(volumes) < period+1 {
		return 0, errors.New("not enough data for average volume")
	}
	window := volumes[len(volumes)-1-period : len(volumes)-1]
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(period), nil
}
