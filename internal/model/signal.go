package model

// Direction is the action a strategy engine proposes.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
	Hold Direction = "HOLD"
)

// Signal is a strategy engine's output. Engines are pure functions of
// (history, position state, configuration); a HOLD signal carries only a reason.
type Signal struct {
	Direction  Direction
	Quantity   float64
	StopPrice  float64
	Target     float64
	Strategy   StrategyID
	Confidence float64
	Reason     string
}

// HoldSignal builds a HOLD with an explanatory reason.
func HoldSignal(strategy StrategyID, reason string) Signal {
	return Signal{Direction: Hold, Strategy: strategy, Reason: reason}
}
