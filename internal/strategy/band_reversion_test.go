package strategy

import (
	"strings"
	"testing"

	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

func newBandsEngine() *BandsEngine {
	return NewBandsEngine(config.BandsConfig{
		Period:       20,
		StdDevs:      2.0,
		ProfitTarget: 0.04,
		MaxHoldBars:  15,
	}, testTrading)
}

func TestBandsEngine_EntryAtLowerBand(t *testing.T) {
	e := newBandsEngine()
	// A sharp drop from a flat base pushes the close through the lower band.
	closes := append(repeat(100, 19), 90)
	history := dayBars(closes, nil)

	sig := e.EvaluateEntry(history, 10000)
	if sig.Direction != model.Buy {
		t.Fatalf("expected BUY, got %s: %s", sig.Direction, sig.Reason)
	}
	if sig.Quantity != 11 {
		t.Errorf("expected 11 shares under the 10%% cost cap, got %v", sig.Quantity)
	}
	// Stop mirrors the reversion distance: 90 - (99.5 - 90) = 80.5.
	if sig.StopPrice < 80.49 || sig.StopPrice > 80.51 {
		t.Errorf("expected stop ~80.50, got %v", sig.StopPrice)
	}
	// Target is the middle band.
	if sig.Target < 99.49 || sig.Target > 99.51 {
		t.Errorf("expected target ~99.50, got %v", sig.Target)
	}
}

func TestBandsEngine_EntryAboveLowerBand(t *testing.T) {
	e := newBandsEngine()
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 99 + 2*float64(i%2) // oscillates 99/101, well inside the bands
	}
	history := dayBars(closes, nil)

	sig := e.EvaluateEntry(history, 10000)
	if sig.Direction != model.Hold {
		t.Fatalf("expected HOLD, got %s", sig.Direction)
	}
	if !strings.Contains(sig.Reason, "above lower band") {
		t.Errorf("unexpected reason: %s", sig.Reason)
	}
}

func TestBandsEngine_EntryInsufficientHistory(t *testing.T) {
	e := newBandsEngine()
	history := dayBars(repeat(100, 10), nil)

	sig := e.EvaluateEntry(history, 10000)
	if sig.Direction != model.Hold {
		t.Fatalf("expected HOLD, got %s", sig.Direction)
	}
	if !strings.Contains(sig.Reason, "insufficient history") {
		t.Errorf("unexpected reason: %s", sig.Reason)
	}
}

func TestBandsEngine_ExitAtUpperBand(t *testing.T) {
	e := newBandsEngine()
	closes := append(repeat(100, 19), 104)
	history := dayBars(closes, nil)
	pos := openPosition(e.ID(), 11, 95, history[19].Time)

	sig := e.EvaluateExit(pos, history)
	if sig.Direction != model.Sell {
		t.Fatalf("expected SELL, got %s: %s", sig.Direction, sig.Reason)
	}
	if !strings.Contains(sig.Reason, "band") {
		t.Errorf("unexpected reason: %s", sig.Reason)
	}
}

func TestBandsEngine_ExitAtMiddleBand(t *testing.T) {
	e := newBandsEngine()
	// A steady ramp leaves the last close above the middle but inside the
	// upper band.
	history := dayBars(ramp(95, 0.5, 20), nil)
	pos := openPosition(e.ID(), 11, 95, history[19].Time)

	sig := e.EvaluateExit(pos, history)
	if sig.Direction != model.Sell {
		t.Fatalf("expected SELL, got %s: %s", sig.Direction, sig.Reason)
	}
	if !strings.Contains(sig.Reason, "middle band") {
		t.Errorf("unexpected reason: %s", sig.Reason)
	}
}

func TestBandsEngine_ExitMaxHold(t *testing.T) {
	e := newBandsEngine()
	// Price keeps sliding, never reverting to the middle band.
	history := dayBars(ramp(106, -0.5, 30), nil)
	pos := openPosition(e.ID(), 11, 97, barBase) // 29 bars held, underwater

	sig := e.EvaluateExit(pos, history)
	if sig.Direction != model.Sell {
		t.Fatalf("expected SELL, got %s: %s", sig.Direction, sig.Reason)
	}
	if !strings.Contains(sig.Reason, "max hold") {
		t.Errorf("unexpected reason: %s", sig.Reason)
	}
}

func TestBandsEngine_ExitHold(t *testing.T) {
	e := newBandsEngine()
	history := dayBars(ramp(106, -0.5, 30), nil)
	pos := openPosition(e.ID(), 11, 91.5, history[29].Time) // fresh, flat P&L

	sig := e.EvaluateExit(pos, history)
	if sig.Direction != model.Hold {
		t.Fatalf("expected HOLD, got %s: %s", sig.Direction, sig.Reason)
	}
}
