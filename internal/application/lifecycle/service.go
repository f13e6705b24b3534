package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/audit"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
)

// Result is the outcome of a committed transition: the new deal snapshot and
// the parties to notify, derived deterministically from the transition row.
type Result struct {
	Deal       *deal.Deal
	Transition deal.Transition
	Recipients []int64
}

// Service is the deal lifecycle engine. It validates and applies status
// transitions, enforces actor authorization and writes the audit trail. It
// never talks to the messaging gateway; notification is the caller's job.
type Service struct {
	deals    deal.Repository
	auditLog audit.Repository
	arbiters map[int64]bool
	logger   zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService creates a lifecycle service. arbiterIDs is the fixed allow-list
// of identities permitted to resolve disputes.
func NewService(deals deal.Repository, auditLog audit.Repository, arbiterIDs []int64, logger zerolog.Logger) *Service {
	arbiters := make(map[int64]bool, len(arbiterIDs))
	for _, id := range arbiterIDs {
		arbiters[id] = true
	}
	return &Service{
		deals:    deals,
		auditLog: auditLog,
		arbiters: arbiters,
		logger:   logger.With().Str("service", "lifecycle").Logger(),
		locks:    map[int64]*sync.Mutex{},
	}
}

// IsArbiter reports membership in the arbiter allow-list.
func (s *Service) IsArbiter(actorID int64) bool {
	return s.arbiters[actorID]
}

// Create opens a new deal in AWAIT_SELLER_CONFIRM and writes the first audit
// entry. Returns deal.ErrValidation for non-positive amounts, empty
// descriptions or buyer == seller.
func (s *Service) Create(ctx context.Context, buyerID, sellerID int64, amount decimal.Decimal, description string) (*deal.Deal, error) {
	if err := deal.ValidateNew(buyerID, sellerID, amount, description); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	d := &deal.Deal{
		BuyerID:     buyerID,
		SellerID:    sellerID,
		Amount:      amount,
		Description: description,
		Status:      deal.StatusAwaitSellerConfirm,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.deals.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	d.ID = id
	if err := s.auditLog.Append(ctx, &audit.Entry{
		DealID:    id,
		Action:    fmt.Sprintf("deal created (buyer %d, seller %d, amount %s)", buyerID, sellerID, amount.String()),
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("audit deal creation: %w", err)
	}
	s.logger.Info().Int64("deal_id", id).Int64("buyer_id", buyerID).Int64("seller_id", sellerID).Msg("deal created")
	return d, nil
}

// Apply validates, authorizes and commits one lifecycle transition.
// It fails with deal.ErrNotFound, deal.ErrInvalidState or
// deal.ErrUnauthorized; on success exactly one audit entry is appended and
// the recipients to notify are returned. Applications for the same deal id
// are serialized, so a double-tapped button commits at most once.
func (s *Service) Apply(ctx context.Context, dealID, actorID int64, event deal.Event) (*Result, error) {
	lock := s.dealLock(dealID)
	lock.Lock()
	defer lock.Unlock()

	d, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("load deal %d: %w", dealID, err)
	}
	if d == nil {
		return nil, deal.ErrNotFound
	}
	t, ok := deal.Lookup(d.Status, event)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", deal.ErrInvalidState, event, d.Status)
	}
	if !s.authorized(d, actorID, t.Actor) {
		return nil, fmt.Errorf("%w: %s requires %s", deal.ErrUnauthorized, event, t.Actor)
	}

	now := time.Now().UTC()
	moved, err := s.deals.UpdateStatus(ctx, dealID, d.Status, t.To, now)
	if err != nil {
		return nil, fmt.Errorf("update deal %d status: %w", dealID, err)
	}
	if !moved {
		return nil, fmt.Errorf("%w: deal %d changed concurrently", deal.ErrInvalidState, dealID)
	}
	if err := s.auditLog.Append(ctx, &audit.Entry{
		DealID:    dealID,
		Action:    fmt.Sprintf(t.Action, actorID),
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("audit transition on deal %d: %w", dealID, err)
	}

	d.Status = t.To
	d.UpdatedAt = now
	s.logger.Info().
		Int64("deal_id", dealID).
		Int64("actor_id", actorID).
		Str("event", string(event)).
		Str("status", string(t.To)).
		Msg("transition committed")

	return &Result{Deal: d, Transition: t, Recipients: s.recipients(d, t)}, nil
}

// DeliverLatest applies the delivered transition to the most recent deal in
// PAID_WAIT_DELIVERY where senderID is the seller. It returns (nil, nil)
// when the sender holds no such deal, so callers can fall through to other
// handling of the message.
func (s *Service) DeliverLatest(ctx context.Context, senderID int64) (*Result, error) {
	d, err := s.deals.LatestBySellerAndStatus(ctx, senderID, deal.StatusPaidWaitDelivery)
	if err != nil {
		return nil, fmt.Errorf("find awaiting-delivery deal for %d: %w", senderID, err)
	}
	if d == nil {
		return nil, nil
	}
	return s.Apply(ctx, d.ID, senderID, deal.EventSellerDelivered)
}

// Get returns one deal, failing with deal.ErrNotFound.
func (s *Service) Get(ctx context.Context, dealID int64) (*deal.Deal, error) {
	d, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("load deal %d: %w", dealID, err)
	}
	if d == nil {
		return nil, deal.ErrNotFound
	}
	return d, nil
}

// DealsFor lists a participant's most recent deals, buyer or seller side.
func (s *Service) DealsFor(ctx context.Context, participantID int64, limit int) ([]*deal.Deal, error) {
	return s.deals.ListByParticipant(ctx, participantID, limit)
}

// Disputes lists all deals currently in DISPUTE.
func (s *Service) Disputes(ctx context.Context) ([]*deal.Deal, error) {
	return s.deals.ListByStatus(ctx, deal.StatusDispute)
}

// History returns the audit trail of a deal in append order.
func (s *Service) History(ctx context.Context, dealID int64) ([]*audit.Entry, error) {
	return s.auditLog.ListByDeal(ctx, dealID)
}

func (s *Service) authorized(d *deal.Deal, actorID int64, role deal.Role) bool {
	if role == deal.RoleArbiter {
		return s.arbiters[actorID]
	}
	return d.HasRole(actorID, role)
}

func (s *Service) recipients(d *deal.Deal, t deal.Transition) []int64 {
	var out []int64
	for _, role := range t.Notify {
		switch role {
		case deal.RoleBuyer:
			out = append(out, d.BuyerID)
		case deal.RoleSeller:
			out = append(out, d.SellerID)
		case deal.RoleArbiter:
			ids := make([]int64, 0, len(s.arbiters))
			for id := range s.arbiters {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			out = append(out, ids...)
		}
	}
	return out
}

func (s *Service) dealLock(dealID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[dealID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[dealID] = lock
	}
	return lock
}
