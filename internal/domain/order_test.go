package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewOrderPricesFromCatalog(t *testing.T) {
	c := DefaultCatalog()

	o, err := NewOrder(c, 7, "Ana", "0917", DishTapsilog, 3, nil)
	if err != nil {
		t.Fatalf("NewOrder returned error: %v", err)
	}

	want := decimal.RequireFromString("360.00")
	if !o.Price.Equal(want) {
		t.Errorf("price = %s, want %s", o.Price, want)
	}
	if o.PaymentStatus != PaymentPending {
		t.Errorf("payment = %s, want %s", o.PaymentStatus, PaymentPending)
	}
	if o.Tracker != TrackerPending {
		t.Errorf("tracker = %s, want %s", o.Tracker, TrackerPending)
	}
}

func TestNewOrderRejectsNonPositiveQuantity(t *testing.T) {
	c := DefaultCatalog()

	for _, qty := range []int{0, -1} {
		if _, err := NewOrder(c, 1, "Ana", "", DishSilog, qty, nil); err == nil {
			t.Errorf("quantity %d should be rejected", qty)
		}
	}
}

func TestTransitionToSetsPayment(t *testing.T) {
	c := DefaultCatalog()
	o, _ := NewOrder(c, 1, "Ana", "", DishSilog, 1, nil)

	if err := o.TransitionTo(TrackerApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if o.PaymentStatus != PaymentPaid {
		t.Errorf("payment after approval = %s, want %s", o.PaymentStatus, PaymentPaid)
	}

	for _, step := range []TrackerStatus{TrackerPreparing, TrackerCooking, TrackerReady, TrackerServed} {
		if err := o.TransitionTo(step); err != nil {
			t.Fatalf("transition to %s: %v", step, err)
		}
	}
	if o.PaymentStatus != PaymentServed {
		t.Errorf("payment after serving = %s, want %s", o.PaymentStatus, PaymentServed)
	}
	if o.ServedAt == nil {
		t.Error("served timestamp should be set")
	}
}

func TestTransitionToRejectsJumps(t *testing.T) {
	c := DefaultCatalog()
	o, _ := NewOrder(c, 1, "Ana", "", DishSilog, 1, nil)

	if err := o.TransitionTo(TrackerReady); err == nil {
		t.Error("pending order should not jump to Ready")
	}
	if o.Tracker != TrackerPending {
		t.Errorf("tracker mutated on rejected transition: %s", o.Tracker)
	}
}

func TestArchiveRejectionDefaultReason(t *testing.T) {
	c := DefaultCatalog()
	o, _ := NewOrder(c, 4, "Ben", "0918", DishHotsilog, 2, nil)
	o.ID = 11

	r := ArchiveRejection(o, "cathy", "")
	if r.Reason != "No reason provided" {
		t.Errorf("reason = %q, want default", r.Reason)
	}
	if r.OriginalOrderID != 11 || r.UserID != 4 || r.Quantity != 2 {
		t.Errorf("snapshot fields wrong: %+v", r)
	}
	if r.RejectedBy != "cathy" {
		t.Errorf("rejected by = %q", r.RejectedBy)
	}
}
