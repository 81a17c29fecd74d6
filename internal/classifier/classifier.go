package classifier

import (
	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// Classify derives an instrument's classification from its snapshot attributes.
// It is total and deterministic: every instrument maps to exactly one category.
//
// Precedence is fixed: penny > etf > high_volatility > large_cap_stable > other.
// A sub-ceiling ETF is therefore treated as a penny instrument, and a volatile
// ETF still classifies as an ETF.
func Classify(inst model.Instrument, cfg config.ClassifierConfig) model.Classification {
	switch {
	case inst.LastPrice < cfg.PennyPriceCeiling:
		return model.ClassPenny
	case inst.IsETF:
		return model.ClassETF
	case inst.Volatility >= cfg.HighVolatilityRatio:
		return model.ClassHighVolatility
	case inst.MarketCap >= cfg.LargeCapFloor:
		return model.ClassLargeCapStable
	default:
		return model.ClassOther
	}
}
