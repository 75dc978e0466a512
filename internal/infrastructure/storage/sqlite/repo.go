package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"soldeck/internal/application/port"
)

// Repo records resolved prices in a local SQLite database.
type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mint TEXT NOT NULL,
  symbol TEXT NOT NULL,
  price REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_points_mint ON price_points(mint);
CREATE INDEX IF NOT EXISTS idx_price_points_ts ON price_points(ts_ms);
`)
	return err
}

func (r *Repo) RecordPrice(ctx context.Context, mint, symbol string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO price_points(mint, symbol, price, ts_ms, created_at) VALUES(?, ?, ?, ?, ?)`,
		mint, symbol, price, ts, time.Now().Unix())
	return err
}

// ListPrices returns the most recent points for a mint, newest first.
func (r *Repo) ListPrices(ctx context.Context, mint string, limit int) ([]port.PricePoint, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT mint, symbol, price, ts_ms FROM price_points WHERE mint = ? ORDER BY ts_ms DESC LIMIT ?`,
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
