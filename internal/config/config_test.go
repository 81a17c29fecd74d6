package config

import (
	"os"
	"path/filepath"
	"testing"

	"TradeFalcon/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Trading.InitialBalance != 10000 {
		t.Errorf("expected default balance 10000, got %v", cfg.Trading.InitialBalance)
	}
	if cfg.Trading.MaxPositions != 10 {
		t.Errorf("expected default max positions 10, got %d", cfg.Trading.MaxPositions)
	}
	if cfg.Validator.MinStopBuffer != 0.05 {
		t.Errorf("expected default stop buffer 0.05, got %v", cfg.Validator.MinStopBuffer)
	}
	if cfg.Validator.MaxAgeHours != 24 {
		t.Errorf("expected default max age 24h, got %d", cfg.Validator.MaxAgeHours)
	}
	if len(cfg.Routes) != 5 {
		t.Errorf("expected 5 default routes, got %d", len(cfg.Routes))
	}
	if cfg.Routes[model.ClassPenny].Strategy != model.StrategyMomentumBreakout {
		t.Errorf("penny route = %s, want momentum breakout", cfg.Routes[model.ClassPenny].Strategy)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
trading:
  initial_balance: 25000
  max_positions: 3
validator:
  min_confidence: HIGH
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Trading.InitialBalance != 25000 {
		t.Errorf("expected balance 25000, got %v", cfg.Trading.InitialBalance)
	}
	if cfg.Trading.MaxPositions != 3 {
		t.Errorf("expected max positions 3, got %d", cfg.Trading.MaxPositions)
	}
	if cfg.Validator.MinConfidence != model.TierHigh {
		t.Errorf("expected HIGH minimum confidence, got %s", cfg.Validator.MinConfidence)
	}
	// Untouched fields still pick up defaults.
	if cfg.RSI.Period != 14 {
		t.Errorf("expected default RSI period 14, got %d", cfg.RSI.Period)
	}
}

func TestValidate_MissingRoute(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delete(cfg.Routes, model.ClassHighVolatility)
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing route")
	}
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Routes[model.ClassOther] = RouteConfig{Strategy: "martingale", Confidence: 0.5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown strategy")
	}
}

func TestValidate_RSIThresholds(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.RSI.Oversold = 60
	cfg.RSI.Overbought = 55
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for oversold above overbought")
	}
}
