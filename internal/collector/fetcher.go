package collector

import "TradeFalcon/internal/model"

// Fetcher defines the market data provider contract. Provider selection and
// fallback are external concerns; the core only needs bars and a profile.
type Fetcher interface {
	// FetchDailyBars returns up to `days` daily bars in chronological order.
	FetchDailyBars(symbol string, days int) ([]model.OHLCV, error)
	// FetchProfile returns the instrument's last price and static attributes
	// (market cap, ETF flag). Volume and volatility may be zero; the
	// collector derives them from the bars.
	FetchProfile(symbol string) (model.Instrument, error)
	Name() string
}
