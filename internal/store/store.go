package store

import (
	"time"

	"TradeFalcon/internal/model"
)

// Store persists the ledger: cash, open positions with their lots, and the
// append-only order log. The contract is load-at-startup plus
// mutate-and-flush; the ledger never reads back mid-run state.
type Store interface {
	// LoadCash returns the persisted cash balance. ok is false when the store
	// has never been initialized.
	LoadCash() (cash float64, ok bool, err error)
	SaveCash(cash float64) error

	LoadPositions() (map[string]*model.Position, error)
	SavePosition(pos *model.Position) error
	DeletePosition(symbol string) error

	AppendOrder(order model.Order) error
	OrdersBetween(from, to time.Time) ([]model.Order, error)

	// RecordSnapshot appends a derived performance row. Snapshots are write-only
	// history for reporting; they are never read back as authoritative state.
	RecordSnapshot(snap model.PortfolioSnapshot) error

	Close() error
}
