package strategy

import (
	"math"

	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// Engine is the common capability all strategy variants implement. Engines are
// pure functions of (history, position state, configuration): they never touch
// the ledger, only propose signals for the executor to apply.
type Engine interface {
	ID() model.StrategyID
	// EvaluateEntry inspects the price history and available cash and returns
	// a BUY with sizing and stop/target levels, or a HOLD with a reason.
	EvaluateEntry(history []model.OHLCV, cash float64) model.Signal
	// EvaluateExit inspects an open position against the history and returns
	// a SELL for the full position, or a HOLD with a reason.
	EvaluateExit(pos *model.Position, history []model.OHLCV) model.Signal
}

// BuildEngines constructs the closed set of engines keyed by strategy ID.
func BuildEngines(cfg *config.Config) map[model.StrategyID]Engine {
	return map[model.StrategyID]Engine{
		model.StrategyRSIReversion:     NewRSIEngine(cfg.RSI, cfg.Trading),
		model.StrategyMomentumBreakout: NewMomentumEngine(cfg.Momentum, cfg.Trading),
		model.StrategyBandReversion:    NewBandsEngine(cfg.Bands, cfg.Trading),
	}
}

// sizeByRisk derives a whole-share quantity from available cash, the risk
// budget per trade, and the distance to the stop. The result is capped so the
// order cost never exceeds the per-position fraction of cash, and never cash
// itself.
func sizeByRisk(cash, entry, stop float64, trading config.TradingConfig) float64 {
	if entry <= 0 || stop <= 0 || stop >= entry || cash <= 0 {
		return 0
	}
	riskBudget := cash * trading.RiskPerTrade
	qty := math.Floor(riskBudget / (entry - stop))

	maxCost := cash * trading.MaxPositionSize
	if maxCost > cash {
		maxCost = cash
	}
	if qty*entry > maxCost {
		qty = math.Floor(maxCost / entry)
	}
	if qty < 1 {
		return 0
	}
	return qty
}

// barsHeld counts the bars that closed after the position was opened.
func barsHeld(pos *model.Position, history []model.OHLCV) int {
	entered := pos.EntryTime()
	n := 0
	for _, b := range history {
		if b.Time.After(entered) {
			n++
		}
	}
	return n
}

// firstBarAfter returns the index of the first bar after the position entry,
// or len(history) if none.
func firstBarAfter(pos *model.Position, history []model.OHLCV) int {
	entered := pos.EntryTime()
	for i, b := range history {
		if b.Time.After(entered) {
			return i
		}
	}
	return len(history)
}
