package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
)

// DealRepository implements deal.Repository.
type DealRepository struct {
	pool *pgxpool.Pool
}

func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

func (r *DealRepository) Create(ctx context.Context, d *deal.Deal) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO deals (buyer_id, seller_id, amount, description, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, d.BuyerID, d.SellerID, d.Amount.String(), d.Description, d.Status, d.CreatedAt, d.UpdatedAt)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *DealRepository) GetByID(ctx context.Context, id int64) (*deal.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, buyer_id, seller_id, amount::text, description, status, created_at, updated_at
		FROM deals WHERE id=$1
	`, id)
	return scanDeal(row)
}

func (r *DealRepository) UpdateStatus(ctx context.Context, id int64, from, to deal.Status, updatedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE deals SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4
	`, to, updatedAt, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *DealRepository) ListByParticipant(ctx context.Context, participantID int64, limit int) ([]*deal.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, buyer_id, seller_id, amount::text, description, status, created_at, updated_at
		FROM deals WHERE buyer_id=$1 OR seller_id=$1 ORDER BY id DESC LIMIT $2
	`, participantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeals(rows)
}

func (r *DealRepository) ListByStatus(ctx context.Context, status deal.Status) ([]*deal.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, buyer_id, seller_id, amount::text, description, status, created_at, updated_at
		FROM deals WHERE status=$1 ORDER BY id DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeals(rows)
}

func (r *DealRepository) LatestBySellerAndStatus(ctx context.Context, sellerID int64, status deal.Status) (*deal.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, buyer_id, seller_id, amount::text, description, status, created_at, updated_at
		FROM deals WHERE seller_id=$1 AND status=$2 ORDER BY id DESC LIMIT 1
	`, sellerID, status)
	return scanDeal(row)
}

func scanDeal(row pgx.Row) (*deal.Deal, error) {
	var (
		d      deal.Deal
		amount string
	)
	if err := row.Scan(&d.ID, &d.BuyerID, &d.SellerID, &amount, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var err error
	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDeals(rows pgx.Rows) ([]*deal.Deal, error) {
	var deals []*deal.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
