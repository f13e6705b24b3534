package participant

import "context"

// Repository defines persistence for participants.
type Repository interface {
	// Upsert inserts the participant or refreshes its display name.
	Upsert(ctx context.Context, p *Participant) error
	// GetByID returns (nil, nil) when the participant is unknown.
	GetByID(ctx context.Context, id int64) (*Participant, error)
}
