package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/participant"
)

// ParticipantRepository implements participant.Repository.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

func (r *ParticipantRepository) Upsert(ctx context.Context, p *participant.Participant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO participants (id, display_name, is_arbiter)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET
			display_name=EXCLUDED.display_name,
			is_arbiter=EXCLUDED.is_arbiter
	`, p.ID, p.DisplayName, p.IsArbiter)
	return err
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*participant.Participant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, is_arbiter FROM participants WHERE id=$1
	`, id)
	var p participant.Participant
	if err := row.Scan(&p.ID, &p.DisplayName, &p.IsArbiter); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
