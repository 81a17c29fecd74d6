package collector

import (
	"errors"
	"strings"
	"testing"
	"time"

	"TradeFalcon/internal/model"
)

func testBars(n int, close, volume float64) []model.OHLCV {
	base := time.Date(2026, 8, 3, 20, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := close + float64(i%3) // mild variation so volatility is nonzero
		bars[i] = model.OHLCV{
			Time: base.AddDate(0, 0, i),
			Open: c, High: c, Low: c, Close: c,
			Volume: volume,
		}
	}
	return bars
}

func TestCollect_DerivesAttributes(t *testing.T) {
	fetcher := &MockFetcher{
		Bars:     map[string][]model.OHLCV{"XYZ": testBars(30, 40, 50000)},
		Profiles: map[string]model.Instrument{"XYZ": {Symbol: "XYZ", MarketCap: 2e9}},
	}
	c := New(fetcher, time.Minute)

	data, err := c.Collect("XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.History) != 30 {
		t.Errorf("history length = %d, want 30", len(data.History))
	}
	// Profile omitted price, volume and volatility: all derived from bars.
	wantPrice := data.History[29].Close
	if data.Instrument.LastPrice != wantPrice {
		t.Errorf("last price = %v, want %v (final close)", data.Instrument.LastPrice, wantPrice)
	}
	if data.Instrument.AvgVolume != 50000 {
		t.Errorf("avg volume = %v, want 50000", data.Instrument.AvgVolume)
	}
	if data.Instrument.Volatility <= 0 {
		t.Errorf("volatility should be derived from bars, got %v", data.Instrument.Volatility)
	}
	if data.Instrument.MarketCap != 2e9 {
		t.Errorf("market cap = %v, want 2e9 (from profile)", data.Instrument.MarketCap)
	}
}

func TestCollect_ProfileValuesWin(t *testing.T) {
	fetcher := &MockFetcher{
		Bars: map[string][]model.OHLCV{"XYZ": testBars(30, 40, 50000)},
		Profiles: map[string]model.Instrument{"XYZ": {
			Symbol: "XYZ", LastPrice: 41.25, AvgVolume: 75000, Volatility: 0.35,
		}},
	}
	c := New(fetcher, time.Minute)

	data, err := c.Collect("XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Instrument.LastPrice != 41.25 {
		t.Errorf("last price = %v, want profile value 41.25", data.Instrument.LastPrice)
	}
	if data.Instrument.AvgVolume != 75000 {
		t.Errorf("avg volume = %v, want profile value 75000", data.Instrument.AvgVolume)
	}
	if data.Instrument.Volatility != 0.35 {
		t.Errorf("volatility = %v, want profile value 0.35", data.Instrument.Volatility)
	}
}

func TestCollect_CachesWithinTTL(t *testing.T) {
	fetcher := &MockFetcher{
		Bars:     map[string][]model.OHLCV{"XYZ": testBars(30, 40, 50000)},
		Profiles: map[string]model.Instrument{"XYZ": {Symbol: "XYZ"}},
	}
	c := New(fetcher, time.Hour)

	if _, err := c.Collect("XYZ"); err != nil {
		t.Fatalf("first collect: %v", err)
	}
	// The fetcher now fails, but the cache serves the snapshot.
	fetcher.Err = errors.New("provider down")
	if _, err := c.Collect("XYZ"); err != nil {
		t.Fatalf("expected cached data, got error: %v", err)
	}

	c.Invalidate("XYZ")
	if _, err := c.Collect("XYZ"); err == nil {
		t.Error("expected error after invalidation with a failing fetcher")
	}
}

func TestCollect_Errors(t *testing.T) {
	c := New(&MockFetcher{}, time.Minute)
	_, err := c.Collect("NOPE")
	if err == nil {
		t.Fatal("expected error for unknown symbol")
	}
	if !strings.Contains(err.Error(), "NOPE") {
		t.Errorf("error should name the symbol, got: %v", err)
	}

	empty := &MockFetcher{
		Bars:     map[string][]model.OHLCV{"XYZ": {}},
		Profiles: map[string]model.Instrument{"XYZ": {Symbol: "XYZ"}},
	}
	if _, err := New(empty, time.Minute).Collect("XYZ"); err == nil {
		t.Error("expected error for empty bar series")
	}
}
