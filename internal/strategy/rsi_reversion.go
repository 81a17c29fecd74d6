package strategy

import (
	"fmt"

	"TradeFalcon/internal/calculator"
	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// RSIEngine trades mean reversion on the Wilder RSI: buy oversold, exit on
// recovery, profit target, or time stop.
type RSIEngine struct {
	cfg     config.RSIConfig
	trading config.TradingConfig
}

// NewRSIEngine creates the RSI mean-reversion engine.
func NewRSIEngine(cfg config.RSIConfig, trading config.TradingConfig) *RSIEngine {
	return &RSIEngine{cfg: cfg, trading: trading}
}

func (e *RSIEngine) ID() model.StrategyID { return model.StrategyRSIReversion }

func (e *RSIEngine) EvaluateEntry(history []model.OHLCV, cash float64) model.Signal {
	closes := model.Closes(history)
	if len(closes) < e.cfg.Period+1 {
		return model.HoldSignal(e.ID(), fmt.Sprintf("insufficient history: %d bars, need %d", len(closes), e.cfg.Period+1))
	}
	rsi, err := calculator.CalculateRSI(closes, e.cfg.Period)
	if err != nil {
		return model.HoldSignal(e.ID(), fmt.Sprintf("rsi calculation: %v", err))
	}
	if rsi >= e.cfg.Oversold {
		return model.HoldSignal(e.ID(), fmt.Sprintf("RSI %.1f not oversold (threshold %.1f)", rsi, e.cfg.Oversold))
	}

	price := closes[len(closes)-1]
	stop := price * (1 - 2*e.cfg.ProfitTarget) // symmetric 2:1 room below the target
	qty := sizeByRisk(cash, price, stop, e.trading)
	if qty == 0 {
		return model.HoldSignal(e.ID(), "insufficient cash for minimum position")
	}

	// Scale confidence with oversold depth: RSI at the threshold maps to ~0.5,
	// RSI 0 maps to 1.0.
	confidence := 0.5 + 0.5*(e.cfg.Oversold-rsi)/e.cfg.Oversold

	return model.Signal{
		Direction:  model.Buy,
		Quantity:   qty,
		StopPrice:  stop,
		Target:     price * (1 + e.cfg.ProfitTarget),
		Strategy:   e.ID(),
		Confidence: confidence,
		Reason:     fmt.Sprintf("RSI %.1f below oversold %.1f", rsi, e.cfg.Oversold),
	}
}

func (e *RSIEngine) EvaluateExit(pos *model.Position, history []model.OHLCV) model.Signal {
	closes := model.Closes(history)
	if len(closes) == 0 {
		return model.HoldSignal(e.ID(), "no history")
	}
	price := closes[len(closes)-1]
	qty := pos.Quantity()

	if rsi, err := calculator.CalculateRSI(closes, e.cfg.Period); err == nil && rsi > e.cfg.Overbought {
		return e.sell(qty, fmt.Sprintf("RSI %.1f above overbought %.1f", rsi, e.cfg.Overbought))
	}
	entry := pos.AvgEntryPrice()
	if entry > 0 && (price-entry)/entry >= e.cfg.ProfitTarget {
		return e.sell(qty, fmt.Sprintf("profit target %.1f%% reached", e.cfg.ProfitTarget*100))
	}
	if held := barsHeld(pos, history); held >= e.cfg.MaxHoldBars {
		return e.sell(qty, fmt.Sprintf("max hold %d bars reached", e.cfg.MaxHoldBars))
	}
	return model.HoldSignal(e.ID(), "no exit condition met")
}

func (e *RSIEngine) sell(qty float64, reason string) model.Signal {
	return model.Signal{Direction: model.Sell, Quantity: qty, Strategy: e.ID(), Confidence: 1.0, Reason: reason}
}
