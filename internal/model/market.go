package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Instrument is an immutable per-cycle snapshot of a tradable symbol's attributes.
type Instrument struct {
	Symbol     string
	LastPrice  float64
	AvgVolume  float64
	Volatility float64 // annualized stddev of daily returns
	MarketCap  float64
	IsETF      bool
}

// Closes extracts the close prices from a bar series.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volumes from a bar series.
func Volumes(bars []OHLCV) []float64 {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}
