package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"TradeFalcon/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reporting reads don't block ledger writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS account (
			id           INTEGER PRIMARY KEY CHECK (id = 1),
			cash         REAL NOT NULL,
			last_updated INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS positions (
			symbol       TEXT PRIMARY KEY,
			strategy     TEXT NOT NULL,
			last_updated INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS lots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol      TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			quantity    REAL NOT NULL,
			entry_price REAL NOT NULL,
			entry_time  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_symbol ON lots(symbol, seq)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id        TEXT PRIMARY KEY,
			symbol    TEXT NOT NULL,
			side      TEXT NOT NULL,
			quantity  REAL NOT NULL,
			price     REAL NOT NULL,
			timestamp INTEGER NOT NULL,
			strategy  TEXT NOT NULL,
			pnl       REAL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,

		`CREATE TABLE IF NOT EXISTS performance (
			timestamp       INTEGER PRIMARY KEY,
			total_value     REAL NOT NULL,
			cash            REAL NOT NULL,
			positions_value REAL NOT NULL,
			unrealized_pnl  REAL NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadCash() (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cash float64
	err := s.db.QueryRow(`SELECT cash FROM account WHERE id = 1`).Scan(&cash)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load cash: %w", err)
	}
	return cash, true, nil
}

func (s *SQLiteStore) SaveCash(cash float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO account (id, cash, last_updated) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cash = excluded.cash, last_updated = excluded.last_updated`,
		cash, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save cash: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadPositions() (map[string]*model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, strategy FROM positions`)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]*model.Position)
	for rows.Next() {
		var pos model.Position
		var strategy string
		if err := rows.Scan(&pos.Symbol, &strategy); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		pos.Strategy = model.StrategyID(strategy)
		positions[pos.Symbol] = &pos
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	for _, pos := range positions {
		lots, err := s.loadLots(pos.Symbol)
		if err != nil {
			return nil, err
		}
		pos.Lots = lots
	}
	return positions, nil
}

func (s *SQLiteStore) loadLots(symbol string) ([]model.Lot, error) {
	rows, err := s.db.Query(
		`SELECT quantity, entry_price, entry_time FROM lots WHERE symbol = ? ORDER BY seq`, symbol)
	if err != nil {
		return nil, fmt.Errorf("load lots %s: %w", symbol, err)
	}
	defer rows.Close()

	var lots []model.Lot
	for rows.Next() {
		var lot model.Lot
		var entryNanos int64
		if err := rows.Scan(&lot.Quantity, &lot.EntryPrice, &entryNanos); err != nil {
			return nil, fmt.Errorf("scan lot %s: %w", symbol, err)
		}
		lot.EntryTime = time.Unix(0, entryNanos)
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// SavePosition replaces the position row and its lot rows. Lot seq preserves
// FIFO order across restarts.
func (s *SQLiteStore) SavePosition(pos *model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save position %s: %w", pos.Symbol, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO positions (symbol, strategy, last_updated) VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET strategy = excluded.strategy, last_updated = excluded.last_updated`,
		pos.Symbol, string(pos.Strategy), time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert position %s: %w", pos.Symbol, err)
	}
	if _, err := tx.Exec(`DELETE FROM lots WHERE symbol = ?`, pos.Symbol); err != nil {
		return fmt.Errorf("clear lots %s: %w", pos.Symbol, err)
	}
	for i, lot := range pos.Lots {
		if _, err := tx.Exec(`INSERT INTO lots (symbol, seq, quantity, entry_price, entry_time) VALUES (?, ?, ?, ?, ?)`,
			pos.Symbol, i, lot.Quantity, lot.EntryPrice, lot.EntryTime.UnixNano()); err != nil {
			return fmt.Errorf("insert lot %s/%d: %w", pos.Symbol, i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeletePosition(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete position %s: %w", symbol, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lots WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("delete lots %s: %w", symbol, err)
	}
	if _, err := tx.Exec(`DELETE FROM positions WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("delete position %s: %w", symbol, err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) AppendOrder(order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO orders (id, symbol, side, quantity, price, timestamp, strategy, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Symbol, string(order.Side), order.Quantity, order.Price,
		order.Time.UnixNano(), string(order.Strategy), order.RealizedPnL)
	if err != nil {
		return fmt.Errorf("append order %s: %w", order.Symbol, err)
	}
	return nil
}

func (s *SQLiteStore) OrdersBetween(from, to time.Time) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, symbol, side, quantity, price, timestamp, strategy, pnl
		FROM orders WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp`,
		from.UnixNano(), to.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var side, strategy string
		var ts int64
		if err := rows.Scan(&o.ID, &o.Symbol, &side, &o.Quantity, &o.Price, &ts, &strategy, &o.RealizedPnL); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Side = model.Direction(side)
		o.Strategy = model.StrategyID(strategy)
		o.Time = time.Unix(0, ts)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *SQLiteStore) RecordSnapshot(snap model.PortfolioSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO performance (timestamp, total_value, cash, positions_value, unrealized_pnl)
		VALUES (?, ?, ?, ?, ?)`,
		snap.Time.Unix(), snap.TotalValue, snap.Cash, snap.PositionsValue, snap.UnrealizedPnL)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
