package collector

import (
	"fmt"
	"sync"
	"time"

	"TradeFalcon/internal/calculator"
	"TradeFalcon/internal/model"
)

// lookbackDays covers the longest indicator period (20 bars) with margin.
const lookbackDays = 60

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars     map[string][]model.OHLCV
	Profiles map[string]model.Instrument
	Err      error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, _ int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no bars for %s", symbol)
	}
	return bars, nil
}

func (m *MockFetcher) FetchProfile(symbol string) (model.Instrument, error) {
	if m.Err != nil {
		return model.Instrument{}, m.Err
	}
	inst, ok := m.Profiles[symbol]
	if !ok {
		return model.Instrument{}, fmt.Errorf("mock: no profile for %s", symbol)
	}
	return inst, nil
}

// MarketData is one symbol's collected snapshot: the instrument attributes
// plus the bar history the engines consume.
type MarketData struct {
	Instrument model.Instrument
	History    []model.OHLCV
}

// Collector fetches market data and derives instrument attributes, caching
// results briefly so the entry path and the monitoring pass don't hammer the
// provider within the same minute.
type Collector struct {
	fetcher Fetcher
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	data      MarketData
	fetchedAt time.Time
}

// New creates a Collector with the given cache TTL.
func New(fetcher Fetcher, ttl time.Duration) *Collector {
	return &Collector{fetcher: fetcher, ttl: ttl, cache: make(map[string]cacheEntry)}
}

// Collect returns the market data snapshot for a symbol, deriving average
// volume and historical volatility from the bars when the profile omits them.
func (c *Collector) Collect(symbol string) (MarketData, error) {
	c.mu.Lock()
	if entry, ok := c.cache[symbol]; ok && time.Since(entry.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return entry.data, nil
	}
	c.mu.Unlock()

	bars, err := c.fetcher.FetchDailyBars(symbol, lookbackDays)
	if err != nil {
		return MarketData{}, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return MarketData{}, fmt.Errorf("fetch daily bars %s: empty series", symbol)
	}
	inst, err := c.fetcher.FetchProfile(symbol)
	if err != nil {
		return MarketData{}, fmt.Errorf("fetch profile %s: %w", symbol, err)
	}

	if inst.LastPrice == 0 {
		inst.LastPrice = bars[len(bars)-1].Close
	}
	if inst.AvgVolume == 0 {
		var sum float64
		for _, b := range bars {
			sum += b.Volume
		}
		inst.AvgVolume = sum / float64(len(bars))
	}
	if inst.Volatility == 0 {
		inst.Volatility = calculator.HistoricalVolatility(model.Closes(bars))
	}

	data := MarketData{Instrument: inst, History: bars}
	c.mu.Lock()
	c.cache[symbol] = cacheEntry{data: data, fetchedAt: time.Now()}
	c.mu.Unlock()
	return data, nil
}

// Invalidate drops a symbol from the cache. Used by tests to force a refetch.
func (c *Collector) Invalidate(symbol string) {
	c.mu.Lock()
	delete(c.cache, symbol)
	c.mu.Unlock()
}
