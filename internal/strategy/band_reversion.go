package strategy

import (
	"fmt"

	"TradeFalcon/internal/calculator"
	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// BandsEngine trades a Bollinger-style channel: buy at the lower band, exit at
// the middle band, profit target, or time stop.
type BandsEngine struct {
	cfg     config.BandsConfig
	trading config.TradingConfig
}

// NewBandsEngine creates the band mean-reversion engine.
func NewBandsEngine(cfg config.BandsConfig, trading config.TradingConfig) *BandsEngine {
	return &BandsEngine{cfg: cfg, trading: trading}
}

func (e *BandsEngine) ID() model.StrategyID { return model.StrategyBandReversion }

func (e *BandsEngine) EvaluateEntry(history []model.OHLCV, cash float64) model.Signal {
	closes := model.Closes(history)
	if len(closes) < e.cfg.Period {
		return model.HoldSignal(e.ID(), fmt.Sprintf("insufficient history: %d bars, need %d", len(closes), e.cfg.Period))
	}
	middle, _, lower, err := calculator.CalculateBands(closes, e.cfg.Period, e.cfg.StdDevs)
	if err != nil {
		return model.HoldSignal(e.ID(), fmt.Sprintf("bands calculation: %v", err))
	}
	price := closes[len(closes)-1]
	if price > lower {
		return model.HoldSignal(e.ID(), fmt.Sprintf("close %.2f above lower band %.2f", price, lower))
	}

	// Stop below the band by the same distance as the reversion target above,
	// so risk roughly matches reward at the middle band.
	stop := price - (middle - price)
	if stop <= 0 || stop >= price {
		stop = price * (1 - e.cfg.ProfitTarget)
	}
	qty := sizeByRisk(cash, price, stop, e.trading)
	if qty == 0 {
		return model.HoldSignal(e.ID(), "insufficient cash for minimum position")
	}

	return model.Signal{
		Direction:  model.Buy,
		Quantity:   qty,
		StopPrice:  stop,
		Target:     middle,
		Strategy:   e.ID(),
		Confidence: 0.7,
		Reason:     fmt.Sprintf("close %.2f at/below lower band %.2f", price, lower),
	}
}

func (e *BandsEngine) EvaluateExit(pos *model.Position, history []model.OHLCV) model.Signal {
	closes := model.Closes(history)
	if len(closes) == 0 {
		return model.HoldSignal(e.ID(), "no history")
	}
	price := closes[len(closes)-1]
	qty := pos.Quantity()

	if middle, upper, _, err := calculator.CalculateBands(closes, e.cfg.Period, e.cfg.StdDevs); err == nil {
		if price >= upper {
			return e.sell(qty, fmt.Sprintf("close %.2f at/above upper band %.2f", price, upper))
		}
		if price >= middle {
			return e.sell(qty, fmt.Sprintf("close %.2f reverted to middle band %.2f", price, middle))
		}
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

func (e *BandsEngine) sell(qty float64, reason string) model.Signal {
	return model.Signal{Direction: model.Sell, Quantity: qty, Strategy: e.ID(), Confidence: 1.0, Reason: reason}
}
