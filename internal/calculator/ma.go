package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the last `period` values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// CalculateStdDev computes the population standard deviation of the last
// `period` values.
func CalculateStdDev(values []float64, period int) (float64, error) {
	mean, err := CalculateSMA(values, period)
	if err != nil {
		return 0, err
	}
	var sq float64
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(period)), nil
}

// CalculateBands computes a Bollinger-style channel: the SMA plus a symmetric
// band at k standard deviations.
func CalculateBands(closes []float64, period int, k float64) (middle, upper, lower float64, err error) {
	middle, err = CalculateSMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}
	sd, err := CalculateStdDev(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}
	return middle, middle + k*sd, middle - k*sd, nil
}

// HistoricalVolatility computes the annualized standard deviation of daily
// log returns over the whole series. Returns 0 for fewer than 2 closes.
func HistoricalVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < 2 {
		return 0
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	daily := math.Sqrt(sq / float64(len(returns)-1))
	return daily * math.Sqrt(252)
}
