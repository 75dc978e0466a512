package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"soldeck/internal/application/port"
)

// Repo is the Postgres price-history backend.
type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS price_points (
  id BIGSERIAL PRIMARY KEY,
  mint TEXT NOT NULL,
  symbol TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_points_mint ON price_points(mint);
CREATE INDEX IF NOT EXISTS idx_price_points_ts ON price_points(ts_ms);
`)
	return err
}

func (r *Repo) RecordPrice(ctx context.Context, mint, symbol string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO price_points(mint, symbol, price, ts_ms, created_at) VALUES($1, $2, $3, $4, $5)`,
		mint, symbol, price, ts, time.Now().Unix())
	return err
}

func (r *Repo) ListPrices(ctx context.Context, mint string, limit int) ([]port.PricePoint, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT mint, symbol, price, ts_ms FROM price_points WHERE mint = $1 ORDER BY ts_ms DESC LIMIT $2`,
		mint, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []port.PricePoint
	for rows.Next() {
		var p port.PricePoint
		if err := rows.Scan(&p.Mint, &p.Symbol, &p.Price, &p.Ts); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ port.PriceHistory = (*Repo)(nil)
