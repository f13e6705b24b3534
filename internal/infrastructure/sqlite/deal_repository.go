package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
)

// DealRepository implements deal.Repository.
type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, d *deal.Deal) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO deals (buyer_id, seller_id, amount, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.BuyerID, d.SellerID, d.Amount.String(), d.Description, d.Status, formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *DealRepository) GetByID(ctx context.Context, id int64) (*deal.Deal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, seller_id, amount, description, status, created_at, updated_at
		FROM deals WHERE id=?
	`, id)
	return scanDeal(row)
}

func (r *DealRepository) UpdateStatus(ctx context.Context, id int64, from, to deal.Status, updatedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE deals SET status=?, updated_at=? WHERE id=? AND status=?
	`, to, formatTime(updatedAt), id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *DealRepository) ListByParticipant(ctx context.Context, participantID int64, limit int) ([]*deal.Deal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, buyer_id, seller_id, amount, description, status, created_at, updated_at
		FROM deals WHERE buyer_id=? OR seller_id=? ORDER BY id DESC LIMIT ?
	`, participantID, participantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeals(rows)
}

func (r *DealRepository) ListByStatus(ctx context.Context, status deal.Status) ([]*deal.Deal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, buyer_id, seller_id, amount, description, status, created_at, updated_at
		FROM deals WHERE status=? ORDER BY id DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeals(rows)
}

func (r *DealRepository) LatestBySellerAndStatus(ctx context.Context, sellerID int64, status deal.Status) (*deal.Deal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, seller_id, amount, description, status, created_at, updated_at
		FROM deals WHERE seller_id=? AND status=? ORDER BY id DESC LIMIT 1
	`, sellerID, status)
	return scanDeal(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*deal.Deal, error) {
	var (
		d                    deal.Deal
		amount               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&d.ID, &d.BuyerID, &d.SellerID, &amount, &d.Description, &d.Status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var err error
	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDeals(rows *sql.Rows) ([]*deal.Deal, error) {
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
