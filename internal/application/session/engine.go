// Package session implements the creation-session engine: a per-initiator
// multi-step exchange that gathers counterparty, amount and description
// before a deal is committed. Sessions live only in process memory; a
// restart loses them, and re-starting the exchange is side-effect-free.
package session

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
)

// Step is a creation-session step. Steps are strictly ordered; no skipping.
type Step string

const (
	StepSeller      Step = "collect_seller"
	StepAmount      Step = "collect_amount"
	StepDescription Step = "collect_description"
	StepConfirm     Step = "confirm"
)

// ErrNoSession is returned when the owner has no session in progress, or is
// not at the step the operation requires.
var ErrNoSession = errors.New("no creation session in progress")

// Session is the accumulated state of one in-flight deal creation.
type Session struct {
	OwnerID     int64
	Step        Step
	SellerID    int64
	Amount      decimal.Decimal
	Description string
}

// Input is one inbound message applied to a session. ForwardedSenderID is
// the identity of the original sender when the message was forwarded.
type Input struct {
	Text              string
	ForwardedSenderID int64
}

// Draft holds the fields of a confirmed session, ready for deal creation.
type Draft struct {
	SellerID    int64
	Amount      decimal.Decimal
	Description string
}

// Engine owns the session map. All operations are addressed by owner id;
// sessions are strictly single-owner and at most one exists per owner.
type Engine struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	logger   zerolog.Logger
}

func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		sessions: map[int64]*Session{},
		logger:   logger.With().Str("service", "session").Logger(),
	}
}

// Start opens a session for the owner at the first step. Any prior session
// for the same owner is discarded, partial fields included.
func (e *Engine) Start(ownerID int64) Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := &Session{OwnerID: ownerID, Step: StepSeller}
	e.sessions[ownerID] = s
	e.logger.Debug().Int64("owner_id", ownerID).Msg("creation session started")
	return *s
}

// Get returns a snapshot of the owner's session and whether one exists.
func (e *Engine) Get(ownerID int64) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[ownerID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Advance applies one input to the owner's session and moves it one step
// forward. Invalid input fails with deal.ErrValidation and leaves the step
// unchanged so the caller can re-prompt. The confirm step does not accept
// free input; use Confirm or Abort.
func (e *Engine) Advance(ownerID int64, in Input) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[ownerID]
	if !ok {
		return Session{}, ErrNoSession
	}

	switch s.Step {
	case StepSeller:
		sellerID, err := parseSeller(in)
		if err != nil {
			return *s, err
		}
		if sellerID == ownerID {
			return *s, deal.ErrValidation
		}
		s.SellerID = sellerID
		s.Step = StepAmount
	case StepAmount:
		amount, err := parseAmount(in.Text)
		if err != nil {
			return *s, err
		}
		s.Amount = amount
		s.Step = StepDescription
	case StepDescription:
		description := strings.TrimSpace(in.Text)
		if description == "" {
			return *s, deal.ErrValidation
		}
		s.Description = description
		s.Step = StepConfirm
	default:
		return *s, deal.ErrValidation
	}
	return *s, nil
}

// Confirm ends the owner's session and returns the collected fields. It
// fails with ErrNoSession unless the session exists and has reached the
// confirm step.
func (e *Engine) Confirm(ownerID int64) (Draft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[ownerID]
	if !ok || s.Step != StepConfirm {
		return Draft{}, ErrNoSession
	}
	delete(e.sessions, ownerID)
	return Draft{SellerID: s.SellerID, Amount: s.Amount, Description: s.Description}, nil
}

// Abort destroys the owner's session with no side effect and reports whether
// one existed.
func (e *Engine) Abort(ownerID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.sessions[ownerID]
	delete(e.sessions, ownerID)
	return ok
}

func parseSeller(in Input) (int64, error) {
	if in.ForwardedSenderID != 0 {
		return in.ForwardedSenderID, nil
	}
	text := strings.TrimSpace(in.Text)
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, deal.ErrValidation
	}
	return id, nil
}

func parseAmount(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := decimal.NewFromString(text)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, deal.ErrValidation
	}
	return amount, nil
}
