package store

import (
	"sync"
	"time"

	"TradeFalcon/internal/model"
)

// MemoryStore is an in-memory Store used in tests and when no database path
// is configured. Nothing survives a restart.
type MemoryStore struct {
	mu        sync.Mutex
	cash      float64
	cashSet   bool
	positions map[string]*model.Position
	orders    []model.Order
	snapshots []model.PortfolioSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[string]*model.Position)}
}

func (m *MemoryStore) LoadCash() (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cash, m.cashSet, nil
}

func (m *MemoryStore) SaveCash(cash float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cash = cash
	m.cashSet = true
	return nil
}

func (m *MemoryStore) LoadPositions() (map[string]*model.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*model.Position, len(m.positions))
	for sym, pos := range m.positions {
		cp := *pos
		cp.Lots = append([]model.Lot(nil), pos.Lots...)
		out[sym] = &cp
	}
	return out, nil
}

func (m *MemoryStore) SavePosition(pos *model.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pos
	cp.Lots = append([]model.Lot(nil), pos.Lots...)
	m.positions[pos.Symbol] = &cp
	return nil
}

func (m *MemoryStore) DeletePosition(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, symbol)
	return nil
}

func (m *MemoryStore) AppendOrder(order model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return nil
}

func (m *MemoryStore) OrdersBetween(from, to time.Time) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.orders {
		if !o.Time.Before(from) && !o.Time.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MemoryStore) RecordSnapshot(snap model.PortfolioSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Orders returns a copy of the order log, oldest first. Test helper.
func (m *MemoryStore) Orders() []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Order(nil), m.orders...)
}
