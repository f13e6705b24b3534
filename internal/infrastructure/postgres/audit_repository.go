package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/audit"
)

// AuditRepository implements audit.Repository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_log (deal_id, action_description, created_at)
		VALUES ($1,$2,$3)
		RETURNING id
	`, entry.DealID, entry.Action, entry.CreatedAt)
	return row.Scan(&entry.ID)
}

func (r *AuditRepository) ListByDeal(ctx context.Context, dealID int64) ([]*audit.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, deal_id, action_description, created_at
		FROM audit_log WHERE deal_id=$1 ORDER BY id
	`, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.DealID, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
