package model

// Classification buckets an instrument by its trading characteristics.
type Classification string

const (
	ClassPenny          Classification = "penny"
	ClassETF            Classification = "etf"
	ClassHighVolatility Classification = "high_volatility"
	ClassLargeCapStable Classification = "large_cap_stable"
	ClassOther          Classification = "other"
)

// StrategyID identifies one of the strategy engines.
type StrategyID string

const (
	StrategyRSIReversion     StrategyID = "rsi_mean_reversion"
	StrategyMomentumBreakout StrategyID = "momentum_breakout"
	StrategyBandReversion    StrategyID = "band_mean_reversion"

	// StrategyUnrouted marks a routing invariant violation: a classification
	// with no entry in the routing table.
	StrategyUnrouted StrategyID = "unrouted"
)

// RoutingDecision is the router's output for one instrument. It is consumed
// immediately by the executor and kept only in the audit log.
type RoutingDecision struct {
	Symbol         string
	Strategy       StrategyID
	Confidence     float64 // 0.0 ~ 1.0
	Classification Classification
	Reason         string
}
