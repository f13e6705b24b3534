package sqlite

import (
	"context"
	"database/sql"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/audit"
)

// AuditRepository implements audit.Repository.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (deal_id, action_description, created_at)
		VALUES (?, ?, ?)
	`, entry.DealID, entry.Action, formatTime(entry.CreatedAt))
	if err != nil {
		return err
	}
	entry.ID, err = res.LastInsertId()
	return err
}

func (r *AuditRepository) ListByDeal(ctx context.Context, dealID int64) ([]*audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, deal_id, action_description, created_at
		FROM audit_log WHERE deal_id=? ORDER BY id
	`, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*audit.Entry
	for rows.Next() {
		var (
			e         audit.Entry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.DealID, &e.Action, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
