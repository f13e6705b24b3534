package deal

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tr, ok := Lookup(StatusAwaitSellerConfirm, EventSellerAccept)
	if !ok {
		t.Fatal("expected a transition for seller_accept from await_seller_confirm")
	}
	if tr.To != StatusAwaitPayment {
		t.Fatalf("expected target %q, got %q", StatusAwaitPayment, tr.To)
	}
	if tr.Actor != RoleSeller {
		t.Fatalf("expected seller actor, got %q", tr.Actor)
	}

	if _, ok := Lookup(StatusAwaitSellerConfirm, EventBuyerPaid); ok {
		t.Fatal("buyer_paid must not apply before the seller accepted")
	}
	if _, ok := Lookup(StatusCompleted, EventBuyerDispute); ok {
		t.Fatal("no transition may leave a terminal status")
	}
}

func TestTransitionTableConsistency(t *testing.T) {
	seen := map[string]bool{}
	for _, tr := range Transitions() {
		key := string(tr.From) + "/" + string(tr.Event)
		if seen[key] {
			t.Fatalf("duplicate transition %s", key)
		}
		seen[key] = true

		if tr.From.IsTerminal() {
			t.Fatalf("transition %s leaves terminal status %q", key, tr.From)
		}
		if err := ValidateStatus(tr.From); err != nil {
			t.Fatalf("transition %s has invalid source: %v", key, err)
		}
		if err := ValidateStatus(tr.To); err != nil {
			t.Fatalf("transition %s has invalid target: %v", key, err)
		}
		if len(tr.Notify) == 0 {
			t.Fatalf("transition %s notifies nobody", key)
		}
		if !strings.Contains(tr.Action, "%d") {
			t.Fatalf("transition %s audit template lacks the actor id", key)
		}
	}
}

func TestDisputeResolutionsAreTerminal(t *testing.T) {
	for _, event := range []Event{EventResolveBuyer, EventResolveSeller, EventResolvePartial} {
		tr, ok := Lookup(StatusDispute, event)
		if !ok {
			t.Fatalf("missing resolution transition %q", event)
		}
		if !tr.To.IsTerminal() {
			t.Fatalf("resolution %q must land on a terminal status, got %q", event, tr.To)
		}
		if tr.Actor != RoleArbiter {
			t.Fatalf("resolution %q must require the arbiter, got %q", event, tr.Actor)
		}
	}
}

func TestTransitionsReturnsCopy(t *testing.T) {
	rows := Transitions()
	rows[0].To = StatusCancelled
	tr, _ := Lookup(StatusAwaitSellerConfirm, EventSellerAccept)
	if tr.To == StatusCancelled {
		t.Fatal("mutating the returned slice must not alter the table")
	}
}
