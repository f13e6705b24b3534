package audit

import "context"

// Repository defines persistence for the audit log. The log is append-only:
// entries are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListByDeal(ctx context.Context, dealID int64) ([]*Entry, error)
}
