package rules

import (
	"testing"

	"github.com/kvitkova/kvitkova-backend/pkg/enums"
)

func TestAdjustmentForMatrix(t *testing.T) {
	statuses := []enums.OrderStatus{
		enums.OrderStatusNew,
		enums.OrderStatusInProgress,
		enums.OrderStatusDone,
		enums.OrderStatusCancelled,
	}

	inCommitted := func(s enums.OrderStatus) bool {
		return s == enums.OrderStatusInProgress || s == enums.OrderStatusDone
	}

	for _, from := range statuses {
		for _, to := range statuses {
			adj := AdjustmentFor(from, to, 3)
			switch {
			case inCommitted(to) && !inCommitted(from):
				if adj.Stock != -3 || adj.Sold != 3 {
					t.Fatalf("%s -> %s: expected commit of 3, got %+v", from, to, adj)
				}
			case to == enums.OrderStatusCancelled && inCommitted(from):
				if adj.Stock != 3 || adj.Sold != -3 {
					t.Fatalf("%s -> %s: expected release of 3, got %+v", from, to, adj)
				}
			default:
				if adj.Changed() {
					t.Fatalf("%s -> %s: expected no movement, got %+v", from, to, adj)
				}
			}
		}
	}
}

func TestOrderCreationMovesNothing(t *testing.T) {
	// An order arriving in status new holds no stock until the seller
	// takes it into progress.
	if adj := AdjustmentFor("", enums.OrderStatusNew, 5); adj.Changed() {
		t.Fatalf("creating an order should not move stock, got %+v", adj)
	}
}

func TestAdjustmentForIgnoresNonPositiveQuantity(t *testing.T) {
	if adj := AdjustmentFor(enums.OrderStatusNew, enums.OrderStatusDone, 0); adj.Changed() {
		t.Fatalf("zero quantity should move nothing, got %+v", adj)
	}
	if adj := AdjustmentFor(enums.OrderStatusNew, enums.OrderStatusDone, -2); adj.Changed() {
		t.Fatalf("negative quantity should move nothing, got %+v", adj)
	}
}

func TestApplyAdjustmentClampsAtZero(t *testing.T) {
	adj := AdjustmentFor(enums.OrderStatusNew, enums.OrderStatusDone, 10)
	stock, sold := ApplyAdjustment(4, 0, adj)
	if stock != 0 {
		t.Fatalf("overdrawn stock should clamp to zero, got %d", stock)
	}
	if sold != 10 {
		t.Fatalf("expected sold counter of 10, got %d", sold)
	}

	release := AdjustmentFor(enums.OrderStatusDone, enums.OrderStatusCancelled, 10)
	stock, sold = ApplyAdjustment(stock, 3, release)
	if stock != 10 {
		t.Fatalf("release should return quantity to stock, got %d", stock)
	}
	if sold != 0 {
		t.Fatalf("sold counter should clamp to zero, got %d", sold)
	}
}

func TestCommitThenReleaseRoundTrip(t *testing.T) {
	stock, sold := 12, 2

	commit := AdjustmentFor(enums.OrderStatusNew, enums.OrderStatusInProgress, 5)
	stock, sold = ApplyAdjustment(stock, sold, commit)
	if stock != 7 || sold != 7 {
		t.Fatalf("after commit expected stock=7 sold=7, got %d/%d", stock, sold)
	}

	// Moving between committed statuses must not double-count.
	step := AdjustmentFor(enums.OrderStatusInProgress, enums.OrderStatusDone, 5)
	if step.Changed() {
		t.Fatalf("in_progress -> done should move nothing, got %+v", step)
	}

	release := AdjustmentFor(enums.OrderStatusDone, enums.OrderStatusCancelled, 5)
	stock, sold = ApplyAdjustment(stock, sold, release)
	if stock != 12 || sold != 2 {
		t.Fatalf("release should restore original counters, got %d/%d", stock, sold)
	}
}

func TestActiveForStock(t *testing.T) {
	if ActiveForStock(0) {
		t.Fatalf("zero stock should deactivate the listing")
	}
	if !ActiveForStock(1) {
		t.Fatalf("positive stock should activate the listing")
	}
}
