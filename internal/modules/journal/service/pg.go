package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trend_bot/internal/models"
	"trend_bot/pkg/db"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id           BIGSERIAL PRIMARY KEY,
	traded_at    TIMESTAMPTZ NOT NULL,
	figi         TEXT NOT NULL,
	action       TEXT NOT NULL,
	price        NUMERIC(18, 9) NOT NULL,
	lots         BIGINT NOT NULL,
	shares       BIGINT NOT NULL,
	reason       TEXT,
	order_id     TEXT,
	realized_pnl NUMERIC(18, 9) DEFAULT 0,
	created_at   TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_trades_figi ON trades(figi);
`

// PG: журнал сделок в postgres.
type PG struct {
	db *db.PgTxManager
}

func NewPG(ctx context.Context, tm *db.PgTxManager) (*PG, error) {
	if _, err := tm.Conn().Exec(ctx, pgSchema); err != nil {
		return nil, fmt.Errorf("pg.NewPG schema: %w", err)
	}
	return &PG{db: tm}, nil
}

// Record in db
func (p *PG) Record(ctx context.Context, rec models.TradeRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Record: %w", err)
		}
	}()
	return p.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO trades (traded_at, figi, action, price, lots, shares, reason, order_id, realized_pnl)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.Time, rec.FIGI, string(rec.Action), rec.Price, rec.Lots, rec.Shares,
			rec.Reason, rec.OrderID, rec.RealizedPnL,
		)
		return err
	})
}

// Recent from db
func (p *PG) Recent(ctx context.Context, limit int) ([]models.TradeRecord, error) {
	rows, err := p.db.Conn().Query(ctx,
		`SELECT traded_at, figi, action, price::float8, lots, shares, coalesce(reason, ''),
		        coalesce(order_id, ''), coalesce(realized_pnl, 0)::float8
		 FROM trades ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("pg.Recent: %w", err)
	}
	defer rows.Close()

	var out []models.TradeRecord
	for rows.Next() {
		var (
			rec    models.TradeRecord
			action string
		)
		if err := rows.Scan(&rec.Time, &rec.FIGI, &action, &rec.Price, &rec.Lots, &rec.Shares,
			&rec.Reason, &rec.OrderID, &rec.RealizedPnL); err != nil {
			return nil, fmt.Errorf("pg.Recent scan: %w", err)
		}
		rec.Action = models.Side(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PG) Close() error {
	p.db.Close()
	return nil
}
