package strategy

import (
	"fmt"

	"TradeFalcon/internal/calculator"
	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// MomentumEngine trades breakouts: buy a close above the rolling high on a
// volume surge, exit on a trailing stop, profit target, or time stop.
type MomentumEngine struct {
	cfg     config.MomentumConfig
	trading config.TradingConfig
}

// NewMomentumEngine creates the momentum breakout engine.
func NewMomentumEngine(cfg config.MomentumConfig, trading config.TradingConfig) *MomentumEngine {
	return &MomentumEngine{cfg: cfg, trading: trading}
}

func (e *MomentumEngine) ID() model.StrategyID { return model.StrategyMomentumBreakout }

func (e *MomentumEngine) EvaluateEntry(history []model.OHLCV, cash float64) model.Signal {
	if len(history) < e.cfg.BreakoutPeriod+1 {
		return model.HoldSignal(e.ID(), fmt.Sprintf("insufficient history: %d bars, need %d", len(history), e.cfg.BreakoutPeriod+1))
	}
	closes := model.Closes(history)
	volumes := model.Volumes(history)
	price := closes[len(closes)-1]

	resistance, err := calculator.RollingHigh(closes, e.cfg.BreakoutPeriod)
	if err != nil {
		return model.HoldSignal(e.ID(), fmt.Sprintf("rolling high: %v", err))
	}
	if price <= resistance {
		return model.HoldSignal(e.ID(), fmt.Sprintf("close %.2f below %d-bar high %.2f", price, e.cfg.BreakoutPeriod, resistance))
	}

	avgVolume, err := calculator.AverageVolume(volumes, e.cfg.BreakoutPeriod)
	if err != nil {
		return model.HoldSignal(e.ID(), fmt.Sprintf("average volume: %v", err))
	}
	volume := volumes[len(volumes)-1]
	if avgVolume <= 0 || volume < avgVolume*e.cfg.VolumeMultiplier {
		return model.HoldSignal(e.ID(), fmt.Sprintf("volume %.0f below %.1fx average %.0f", volume, e.cfg.VolumeMultiplier, avgVolume))
	}

	stop := price * (1 - e.cfg.TrailingStopPct)
	qty := sizeByRisk(cash, price, stop, e.trading)
	if qty == 0 {
		return model.HoldSignal(e.ID(), "insufficient cash for minimum position")
	}

	volumeRatio := volume / avgVolume
	confidence := 0.6 + 0.1*volumeRatio
	if confidence > 1.0 {
		confidence = 1.0
	}

	return model.Signal{
		Direction:  model.Buy,
		Quantity:   qty,
		StopPrice:  stop,
		Target:     price * (1 + e.cfg.ProfitTarget),
		Strategy:   e.ID(),
		Confidence: confidence,
		Reason:     fmt.Sprintf("breakout above %.2f on %.1fx volume", resistance, volumeRatio),
	}
}

func (e *MomentumEngine) EvaluateExit(pos *model.Position, history []model.OHLCV) model.Signal {
	closes := model.Closes(history)
	if len(closes) == 0 {
		return model.HoldSignal(e.ID(), "no history")
	}
	price := closes[len(closes)-1]
	qty := pos.Quantity()
	entry := pos.AvgEntryPrice()

	// Trailing stop ratchets off the highest close since entry; the entry
	// price floors it so an immediate drawdown still has stop protection.
	high := calculator.HighestSince(closes, firstBarAfter(pos, history))
	if high < entry {
		high = entry
	}
	trailingStop := high * (1 - e.cfg.TrailingStopPct)
	if price <= trailingStop {
		return e.sell(qty, fmt.Sprintf("trailing stop %.2f hit (high %.2f)", trailingStop, high))
	}
	if entry > 0 && (price-entry)/entry >= e.cfg.ProfitTarget {
		return e.sell(qty, fmt.Sprintf("profit target %.1f%% reached", e.cfg.ProfitTarget*100))
	}
	if held := barsHeld(pos, history); held >= e.cfg.MaxHoldBars {
		return e.sell(qty, fmt.Sprintf("max hold %d bars reached", e.cfg.MaxHoldBars))
	}
	return model.HoldSignal(e.ID(), "no exit condition met")
}

func (e *MomentumEngine) sell(qty float64, reason string) model.Signal {
	return model.Signal{Direction: model.Sell, Quantity: qty, Strategy: e.ID(), Confidence: 1.0, Reason: reason}
}
