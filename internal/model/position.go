package model

import "time"

// Lot is a single purchase parcel inside a position.
type Lot struct {
	Quantity   float64
	EntryPrice float64
	EntryTime  time.Time
}

// Position holds the open lots for one symbol. Lots are kept oldest-first;
// sells consume them in that order. Only the ledger mutates a Position.
type Position struct {
	Symbol   string
	Lots     []Lot
	Strategy StrategyID
}

// Quantity returns the total open quantity across all lots.
func (p *Position) Quantity() float64 {
	var q float64
	for _, l := range p.Lots {
		q += l.Quantity
	}
	return q
}

// AvgEntryPrice returns the quantity-weighted average entry price.
func (p *Position) AvgEntryPrice() float64 {
	var q, cost float64
	for _, l := range p.Lots {
		q += l.Quantity
		cost += l.Quantity * l.EntryPrice
	}
	if q == 0 {
		return 0
	}
	return cost / q
}

// EntryTime returns the oldest lot's entry time.
func (p *Position) EntryTime() time.Time {
	if len(p.Lots) == 0 {
		return time.Time{}
	}
	return p.Lots[0].EntryTime
}

// MarketValue returns the position value at the given price.
func (p *Position) MarketValue(price float64) float64 {
	return p.Quantity() * price
}

// UnrealizedPnL returns the open profit at the given price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	var pnl float64
	for _, l := range p.Lots {
		pnl += (price - l.EntryPrice) * l.Quantity
	}
	return pnl
}

// Order is an immutable audit record of one executed trade.
type Order struct {
	ID          string
	Symbol      string
	Side        Direction
	Quantity    float64
	Price       float64
	Time        time.Time
	Strategy    StrategyID
	RealizedPnL float64 // SELL orders only
}

// PortfolioSnapshot is a derived view of the portfolio. The ledger's cash and
// lots remain the source of truth; this is never persisted as state.
type PortfolioSnapshot struct {
	Cash           float64
	PositionsValue float64
	TotalValue     float64
	UnrealizedPnL  float64
	Positions      int
	Time           time.Time
}
