// Package postgres is the pgx-backed store backend, selected when a
// DATABASE_URL is configured.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgx connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, config)
}

// InitSchema creates the three relations if they do not exist. Schema
// changes are additive only; there is no migration framework.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS participants (
		id BIGINT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		is_arbiter BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE TABLE IF NOT EXISTS deals (
		id BIGSERIAL PRIMARY KEY,
		buyer_id BIGINT NOT NULL,
		seller_id BIGINT NOT NULL,
		amount NUMERIC NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS audit_log (
		id BIGSERIAL PRIMARY KEY,
		deal_id BIGINT NOT NULL,
		action_description TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_deals_seller_status ON deals(seller_id, status);
	CREATE INDEX IF NOT EXISTS idx_audit_log_deal ON audit_log(deal_id);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}
