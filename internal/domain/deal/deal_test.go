package deal

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateNew(t *testing.T) {
	amount := decimal.NewFromInt(100)
	if err := ValidateNew(1, 2, amount, "a thing"); err != nil {
		t.Fatalf("expected valid deal: %v", err)
	}
	if err := ValidateNew(1, 1, amount, "a thing"); err == nil {
		t.Fatal("expected error for buyer == seller")
	}
	if err := ValidateNew(0, 2, amount, "a thing"); err == nil {
		t.Fatal("expected error for missing buyer")
	}
	if err := ValidateNew(1, 2, decimal.Zero, "a thing"); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if err := ValidateNew(1, 2, decimal.NewFromInt(-5), "a thing"); err == nil {
		t.Fatal("expected error for negative amount")
	}
	if err := ValidateNew(1, 2, amount, ""); err == nil {
		t.Fatal("expected error for empty description")
	}
}

func TestHasRole(t *testing.T) {
	d := &Deal{BuyerID: 1, SellerID: 2}
	if !d.HasRole(1, RoleBuyer) {
		t.Fatal("buyer id should hold buyer role")
	}
	if d.HasRole(2, RoleBuyer) {
		t.Fatal("seller id should not hold buyer role")
	}
	if !d.HasRole(2, RoleSeller) {
		t.Fatal("seller id should hold seller role")
	}
	if d.HasRole(1, RoleArbiter) {
		t.Fatal("arbiter role is never held through the deal")
	}
}

func TestValidateStatus(t *testing.T) {
	valid := []Status{
		StatusAwaitSellerConfirm, StatusAwaitPayment, StatusPaidWaitDelivery,
		StatusWaitBuyerConfirm, StatusCompleted, StatusDispute,
		StatusResolvedBuyer, StatusResolvedSeller, StatusResolvedPartial,
		StatusRejectedBySeller, StatusCancelled,
	}
	for _, s := range valid {
		if err := ValidateStatus(s); err != nil {
			t.Fatalf("expected valid status %q: %v", s, err)
		}
	}
	if err := ValidateStatus("escaped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
