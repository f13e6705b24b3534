package deal

import (
	"context"
	"time"
)

// Repository defines persistence for deals. Lookup methods return (nil, nil)
// when no row matches.
type Repository interface {
	Create(ctx context.Context, d *Deal) (int64, error)
	GetByID(ctx context.Context, id int64) (*Deal, error)

	// UpdateStatus moves a deal from one status to another. It reports
	// false when the stored status no longer equals from, so a concurrent
	// transition cannot be applied twice.
	UpdateStatus(ctx context.Context, id int64, from, to Status, updatedAt time.Time) (bool, error)

	ListByParticipant(ctx context.Context, participantID int64, limit int) ([]*Deal, error)
	ListByStatus(ctx context.Context, status Status) ([]*Deal, error)

	// LatestBySellerAndStatus returns the most recently created deal in the
	// given status where participantID is the seller.
	LatestBySellerAndStatus(ctx context.Context, sellerID int64, status Status) (*Deal, error)
}
