package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/crypto_swing_bot/internal/domain"
)

// SQLiteStore is the append-only durable log: one row per price observation
// and one row per executed trade. The trading core only writes here; reads
// serve the report tool.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS price_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			price REAL NOT NULL,
			is_base BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_price_log_symbol ON price_log(symbol, created_at);`,
		`CREATE TABLE IF NOT EXISTS trade_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			price REAL NOT NULL,
			quantity REAL NOT NULL,
			trigger_delta REAL NOT NULL,
			raw_pct REAL NOT NULL,
			effective_pct REAL NOT NULL,
			usd_value REAL NOT NULL,
			base_balance REAL NOT NULL,
			quote_balance REAL NOT NULL,
			total_usd REAL NOT NULL,
			simulated BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trade_log_symbol ON trade_log(symbol, created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) SavePriceRow(ctx context.Context, row *domain.PriceRow) error {
	query := `INSERT INTO price_log (symbol, price, is_base, created_at) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query, row.Symbol, row.Price, row.IsBase, row.CreatedAt)
	if err != nil {
		return err
	}
	row.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) SaveTradeRow(ctx context.Context, row *domain.TradeRow) error {
	query := `INSERT INTO trade_log (order_id, symbol, side, price, quantity, trigger_delta, raw_pct, effective_pct, usd_value, base_balance, quote_balance, total_usd, simulated, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		row.OrderID, row.Symbol, row.Side, row.Price, row.Quantity,
		row.TriggerDelta, row.RawPct, row.EffectivePct, row.UsdValue,
		row.BaseBalance, row.QuoteBalance, row.TotalUsd, row.Simulated, row.CreatedAt)
	if err != nil {
		return err
	}
	row.ID, _ = res.LastInsertId()
	return nil
}

const tradeColumns = `id, order_id, symbol, side, price, quantity, trigger_delta, raw_pct, effective_pct, usd_value, base_balance, quote_balance, total_usd, simulated, created_at`

func (s *SQLiteStore) ListTradeRows(ctx context.Context, limit int) ([]*domain.TradeRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM trade_log ORDER BY created_at DESC LIMIT ?`, tradeColumns)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTradeRows(rows)
}

func (s *SQLiteStore) ListTradeRowsSince(ctx context.Context, since time.Time) ([]*domain.TradeRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM trade_log WHERE created_at >= ? ORDER BY created_at ASC`, tradeColumns)
	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTradeRows(rows)
}

func scanTradeRows(rows *sql.Rows) ([]*domain.TradeRow, error) {
	var trades []*domain.TradeRow
	for rows.Next() {
		var t domain.TradeRow
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Symbol, &t.Side, &t.Price, &t.Quantity,
			&t.TriggerDelta, &t.RawPct, &t.EffectivePct, &t.UsdValue,
			&t.BaseBalance, &t.QuoteBalance, &t.TotalUsd, &t.Simulated, &t.CreatedAt); err != nil {
			return nil, err
		}
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
