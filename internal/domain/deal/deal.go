package deal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a deal.
type Status string

const (
	StatusAwaitSellerConfirm Status = "await_seller_confirm"
	StatusAwaitPayment       Status = "await_payment"
	StatusPaidWaitDelivery   Status = "paid_waiting_delivery"
	StatusWaitBuyerConfirm   Status = "waiting_buyer_confirm"
	StatusCompleted          Status = "completed_success"
	StatusDispute            Status = "dispute"
	StatusResolvedBuyer      Status = "resolved_buyer"
	StatusResolvedSeller     Status = "resolved_seller"
	StatusResolvedPartial    Status = "resolved_partial"
	StatusRejectedBySeller   Status = "rejected_by_seller"
	StatusCancelled          Status = "cancelled"
)

// Role identifies the party a transition requires.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleArbiter Role = "arbiter"
)

var (
	ErrNotFound     = errors.New("deal not found")
	ErrUnauthorized = errors.New("actor not authorized for this transition")
	ErrInvalidState = errors.New("transition not allowed in current status")
	ErrValidation   = errors.New("invalid deal input")
)

// Deal represents one escrow transaction between a buyer and a seller.
// The id is assigned by the store; buyer and seller ids are external
// messaging-platform identities.
type Deal struct {
	ID          int64           `json:"id"`
	BuyerID     int64           `json:"buyerId"`
	SellerID    int64           `json:"sellerId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasRole reports whether the actor holds the given role on this deal.
// Arbiter membership is decided by the caller's allow-list, not the deal.
func (d *Deal) HasRole(actorID int64, role Role) bool {
	switch role {
	case RoleBuyer:
		return actorID == d.BuyerID
	case RoleSeller:
		return actorID == d.SellerID
	default:
		return false
	}
}

// ValidateNew checks the fields required to open a deal.
func ValidateNew(buyerID, sellerID int64, amount decimal.Decimal, description string) error {
	if buyerID == 0 || sellerID == 0 {
		return ErrValidation
	}
	if buyerID == sellerID {
		return ErrValidation
	}
	if !amount.IsPositive() {
		return ErrValidation
	}
	if description == "" {
		return ErrValidation
	}
	return nil
}

func ValidateStatus(status Status) error {
	switch status {
	case StatusAwaitSellerConfirm, StatusAwaitPayment, StatusPaidWaitDelivery,
		StatusWaitBuyerConfirm, StatusCompleted, StatusDispute,
		StatusResolvedBuyer, StatusResolvedSeller, StatusResolvedPartial,
		StatusRejectedBySeller, StatusCancelled:
		return nil
	default:
		return errors.New("invalid status")
	}
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejectedBySeller, StatusCancelled,
		StatusResolvedBuyer, StatusResolvedSeller, StatusResolvedPartial:
		return true
	default:
		return false
	}
}
