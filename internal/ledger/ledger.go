package ledger

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"TradeFalcon/internal/model"
	"TradeFalcon/internal/store"

	"github.com/google/uuid"
)

var (
	// ErrInsufficientCash rejects a BUY whose cost would drive cash negative.
	ErrInsufficientCash = errors.New("insufficient cash")
	// ErrOversizedSell rejects a SELL larger than the open position.
	ErrOversizedSell = errors.New("sell quantity exceeds position")
	// ErrNoPosition rejects a SELL on a symbol with no open position.
	ErrNoPosition = errors.New("no open position")
	// ErrInvalidSignal rejects malformed signals (non-positive quantity or price).
	ErrInvalidSignal = errors.New("invalid signal")
)

// qtyEpsilon absorbs float drift when comparing lot quantities.
const qtyEpsilon = 1e-9

// Ledger owns the authoritative trading state: cash, open positions with their
// FIFO lots, and the append-only order log. Every mutation goes through
// Execute under a single mutex, so entry processing and the monitoring pass
// can never interleave on the same state.
type Ledger struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]*model.Position
	store     store.Store
}

// New loads ledger state from the store, initializing cash to initialBalance
// on first run.
func New(st store.Store, initialBalance float64) (*Ledger, error) {
	cash, ok, err := st.LoadCash()
	if err != nil {
		return nil, fmt.Errorf("load cash: %w", err)
	}
	if !ok {
		cash = initialBalance
		if err := st.SaveCash(cash); err != nil {
			return nil, fmt.Errorf("init cash: %w", err)
		}
		log.Printf("[INFO] ledger initialized with balance %.2f", cash)
	}
	positions, err := st.LoadPositions()
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	if len(positions) > 0 {
		log.Printf("[INFO] ledger restored %d open positions, cash %.2f", len(positions), cash)
	}
	return &Ledger{cash: cash, positions: positions, store: st}, nil
}

// Execute applies a validated signal atomically and appends the audit order.
// A rejected signal leaves the ledger untouched. HOLD signals are invalid
// here: the executor must not call Execute for them.
func (l *Ledger) Execute(symbol string, sig model.Signal, price float64, now time.Time) (model.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if sig.Quantity <= 0 || price <= 0 {
		return model.Order{}, fmt.Errorf("%w: qty %.4f price %.4f", ErrInvalidSignal, sig.Quantity, price)
	}

	switch sig.Direction {
	case model.Buy:
		return l.buy(symbol, sig, price, now)
	case model.Sell:
		return l.sell(symbol, sig, price, now)
	default:
		return model.Order{}, fmt.Errorf("%w: direction %q", ErrInvalidSignal, sig.Direction)
	}
}

func (l *Ledger) buy(symbol string, sig model.Signal, price float64, now time.Time) (model.Order, error) {
	cost := sig.Quantity * price
	if cost > l.cash {
		return model.Order{}, fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCash, cost, l.cash)
	}

	pos, ok := l.positions[symbol]
	if !ok {
		pos = &model.Position{Symbol: symbol, Strategy: sig.Strategy}
		l.positions[symbol] = pos
	}
	pos.Lots = append(pos.Lots, model.Lot{Quantity: sig.Quantity, EntryPrice: price, EntryTime: now})
	l.cash -= cost

	order := model.Order{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Side:     model.Buy,
		Quantity: sig.Quantity,
		Price:    price,
		Time:     now,
		Strategy: sig.Strategy,
	}
	l.flush(pos, order)
	return order, nil
}

// sell consumes lots oldest-first. Realized P&L accrues per consumed lot
// fraction as (sell price − lot entry price) × consumed quantity.
func (l *Ledger) sell(symbol string, sig model.Signal, price float64, now time.Time) (model.Order, error) {
	pos, ok := l.positions[symbol]
	if !ok {
		return model.Order{}, fmt.Errorf("%w: %s", ErrNoPosition, symbol)
	}
	held := pos.Quantity()
	if sig.Quantity > held+qtyEpsilon {
		return model.Order{}, fmt.Errorf("%w: sell %.4f, hold %.4f", ErrOversizedSell, sig.Quantity, held)
	}

	remaining := sig.Quantity
	var realized float64
	for remaining > qtyEpsilon && len(pos.Lots) > 0 {
		lot := &pos.Lots[0]
		consumed := lot.Quantity
		if consumed > remaining {
			consumed = remaining
		}
		realized += (price - lot.EntryPrice) * consumed
		lot.Quantity -= consumed
		remaining -= consumed
		if lot.Quantity <= qtyEpsilon {
			pos.Lots = pos.Lots[1:]
		}
	}
	l.cash += sig.Quantity * price

	order := model.Order{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Side:        model.Sell,
		Quantity:    sig.Quantity,
		Price:       price,
		Time:        now,
		Strategy:    sig.Strategy,
		RealizedPnL: realized,
	}

	if len(pos.Lots) == 0 {
		delete(l.positions, symbol)
		l.flushClosed(symbol, order)
	} else {
		l.flush(pos, order)
	}
	return order, nil
}

// flush persists a mutation. Persistence failures are logged, not fatal: the
// in-memory ledger stays correct for the rest of the run and the next
// successful flush rewrites the full position state.
func (l *Ledger) flush(pos *model.Position, order model.Order) {
	if err := l.store.SaveCash(l.cash); err != nil {
		log.Printf("[ERROR] persist cash: %v", err)
	}
	if err := l.store.SavePosition(pos); err != nil {
		log.Printf("[ERROR] persist position %s: %v", pos.Symbol, err)
	}
	if err := l.store.AppendOrder(order); err != nil {
		log.Printf("[ERROR] persist order %s: %v", order.Symbol, err)
	}
}

func (l *Ledger) flushClosed(symbol string, order model.Order) {
	if err := l.store.SaveCash(l.cash); err != nil {
		log.Printf("[ERROR] persist cash: %v", err)
	}
	if err := l.store.DeletePosition(symbol); err != nil {
		log.Printf("[ERROR] delete position %s: %v", symbol, err)
	}
	if err := l.store.AppendOrder(order); err != nil {
		log.Printf("[ERROR] persist order %s: %v", order.Symbol, err)
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

// Position returns a copy of the open position for symbol, or nil.
func (l *Ledger) Position(symbol string) *model.Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.positions[symbol]
	if !ok {
		return nil
	}
	cp := *pos
	cp.Lots = append([]model.Lot(nil), pos.Lots...)
	return &cp
}

// Positions returns copies of all open positions.
func (l *Ledger) Positions() []*model.Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*model.Position, 0, len(l.positions))
	for _, pos := range l.positions {
		cp := *pos
		cp.Lots = append([]model.Lot(nil), pos.Lots...)
		out = append(out, &cp)
	}
	return out
}

// OpenPositionCount returns the number of open positions.
func (l *Ledger) OpenPositionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.positions)
}

// Snapshot derives the portfolio view from cash and live lots at the given
// prices. A symbol missing from prices is valued at zero and logged; the
// snapshot is reporting-only and never written back as state.
func (l *Ledger) Snapshot(prices map[string]float64, now time.Time) model.PortfolioSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := model.PortfolioSnapshot{Cash: l.cash, Positions: len(l.positions), Time: now}
	for sym, pos := range l.positions {
		price, ok := prices[sym]
		if !ok {
			log.Printf("[WARN] snapshot: no price for %s, valuing at zero", sym)
			continue
		}
		snap.PositionsValue += pos.MarketValue(price)
		snap.UnrealizedPnL += pos.UnrealizedPnL(price)
	}
	snap.TotalValue = snap.Cash + snap.PositionsValue
	return snap
}

// RecordSnapshot derives and persists a performance row.
func (l *Ledger) RecordSnapshot(prices map[string]float64, now time.Time) model.PortfolioSnapshot {
	snap := l.Snapshot(prices, now)
	if err := l.store.RecordSnapshot(snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
	return snap
}

// RealizedPnL sums realized gains over the order log in [from, to].
func (l *Ledger) RealizedPnL(from, to time.Time) (float64, error) {
	orders, err := l.store.OrdersBetween(from, to)
	if err != nil {
		return 0, fmt.Errorf("query orders: %w", err)
	}
	var pnl float64
	for _, o := range orders {
		if o.Side == model.Sell {
			pnl += o.RealizedPnL
		}
	}
	return pnl, nil
}
