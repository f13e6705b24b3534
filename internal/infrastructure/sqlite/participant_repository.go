package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/participant"
)

// ParticipantRepository implements participant.Repository.
type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Upsert(ctx context.Context, p *participant.Participant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (id, display_name, is_arbiter)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name=excluded.display_name,
			is_arbiter=excluded.is_arbiter
	`, p.ID, p.DisplayName, p.IsArbiter)
	return err
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*participant.Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, is_arbiter FROM participants WHERE id=?
	`, id)
	var p participant.Participant
	if err := row.Scan(&p.ID, &p.DisplayName, &p.IsArbiter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
