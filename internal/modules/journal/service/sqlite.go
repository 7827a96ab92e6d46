package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trend_bot/internal/models"
	"trend_bot/pkg/logger"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	traded_at    DATETIME NOT NULL,
	figi         TEXT NOT NULL,
	action       TEXT NOT NULL,
	price        REAL NOT NULL,
	lots         INTEGER NOT NULL,
	shares       INTEGER NOT NULL,
	reason       TEXT,
	order_id     TEXT,
	realized_pnl REAL DEFAULT 0,
	created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_trades_figi ON trades(figi);
CREATE INDEX IF NOT EXISTS idx_trades_traded_at ON trades(traded_at);
`

// SQLite: журнал сделок в локальной базе.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		path = "data/trades.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_sync=NORMAL")
	if err != nil {
		return nil, err
	}
	// один писатель
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	logger.Info("[journal] opened sqlite trade journal at %s", path)
	return &SQLite{db: db}, nil
}

func (s *SQLite) Record(ctx context.Context, rec models.TradeRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trades (traded_at, figi, action, price, lots, shares, reason, order_id, realized_pnl)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Time.UTC().Format(time.RFC3339Nano),
		rec.FIGI,
		string(rec.Action),
		rec.Price,
		rec.Lots,
		rec.Shares,
		rec.Reason,
		rec.OrderID,
		rec.RealizedPnL,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert trade: %w", err)
	}
	return nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]models.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT traded_at, figi, action, price, lots, shares, reason, order_id, realized_pnl
		 FROM trades ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TradeRecord
	for rows.Next() {
		var (
			rec      models.TradeRecord
			tradedAt string
			action   string
		)
		if err := rows.Scan(&tradedAt, &rec.FIGI, &action, &rec.Price, &rec.Lots, &rec.Shares,
			&rec.Reason, &rec.OrderID, &rec.RealizedPnL); err != nil {
			return nil, err
		}
		rec.Action = models.Side(action)
		rec.Time, _ = time.Parse(time.RFC3339Nano, tradedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
