package classifier

import (
	"testing"

	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

var testCfg = config.ClassifierConfig{
	PennyPriceCeiling:   5.0,
	HighVolatilityRatio: 0.60,
	LargeCapFloor:       10e9,
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		inst model.Instrument
		want model.Classification
	}{
		{
			name: "penny stock",
			inst: model.Instrument{Symbol: "ABTC", LastPrice: 2.03, Volatility: 0.30},
			want: model.ClassPenny,
		},
		{
			name: "etf",
			inst: model.Instrument{Symbol: "SPY", LastPrice: 620, IsETF: true, Volatility: 0.20},
			want: model.ClassETF,
		},
		{
			name: "high volatility",
			inst: model.Instrument{Symbol: "MARA", LastPrice: 18, Volatility: 0.85, MarketCap: 6e9},
			want: model.ClassHighVolatility,
		},
		{
			name: "large cap stable",
			inst: model.Instrument{Symbol: "AAPL", LastPrice: 230, Volatility: 0.25, MarketCap: 3.5e12},
			want: model.ClassLargeCapStable,
		},
		{
			name: "other",
			inst: model.Instrument{Symbol: "XYZ", LastPrice: 42, Volatility: 0.30, MarketCap: 2e9},
			want: model.ClassOther,
		},
		{
			name: "penny beats etf flag",
			inst: model.Instrument{Symbol: "PETF", LastPrice: 3.50, IsETF: true},
			want: model.ClassPenny,
		},
		{
			name: "etf beats volatility",
			inst: model.Instrument{Symbol: "TQQQ", LastPrice: 75, IsETF: true, Volatility: 0.90},
			want: model.ClassETF,
		},
		{
			name: "volatility beats market cap",
			inst: model.Instrument{Symbol: "TSLA", LastPrice: 260, Volatility: 0.70, MarketCap: 8e11},
			want: model.ClassHighVolatility,
		},
		{
			name: "volatility exactly at threshold",
			inst: model.Instrument{Symbol: "EDGE", LastPrice: 50, Volatility: 0.60},
			want: model.ClassHighVolatility,
		},
		{
			name: "market cap exactly at floor",
			inst: model.Instrument{Symbol: "CAP", LastPrice: 100, Volatility: 0.20, MarketCap: 10e9},
			want: model.ClassLargeCapStable,
		},
		{
			name: "price exactly at penny ceiling is not penny",
			inst: model.Instrument{Symbol: "FIVE", LastPrice: 5.00, Volatility: 0.20},
			want: model.ClassOther,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.inst, testCfg)
			if got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.inst.Symbol, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inst := model.Instrument{Symbol: "AAPL", LastPrice: 230, Volatility: 0.25, MarketCap: 3.5e12}
	first := Classify(inst, testCfg)
	for i := 0; i < 10; i++ {
		if got := Classify(inst, testCfg); got != first {
			t.Fatalf("classification changed between calls: %s then %s", first, got)
		}
	}
}
