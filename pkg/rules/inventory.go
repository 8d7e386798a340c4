package rules

import "github.com/kvitkova/kvitkova-backend/pkg/enums"

// Stock moves only when an order crosses into or out of the committed set of
// statuses. Creating an order never touches stock; a new order holds nothing
// until the seller takes it.

// committed reports whether the status counts the order's quantity against
// the listing's stock.
func committed(status enums.OrderStatus) bool {
	return status == enums.OrderStatusInProgress || status == enums.OrderStatusDone
}

// CommitsStock reports whether the transition should subtract the order's
// quantity from stock and add it to the sold counter.
func CommitsStock(from, to enums.OrderStatus) bool {
	return committed(to) && !committed(from)
}

// ReleasesStock reports whether the transition should hand the order's
// quantity back to stock and roll back the sold counter.
func ReleasesStock(from, to enums.OrderStatus) bool {
	return to == enums.OrderStatusCancelled && committed(from)
}

// StockAdjustment is the inventory delta implied by a status transition.
type StockAdjustment struct {
	Stock int
	Sold  int
}

// Changed reports whether the transition moves inventory at all.
func (a StockAdjustment) Changed() bool {
	return a.Stock != 0 || a.Sold != 0
}

// AdjustmentFor computes the inventory delta for a status transition of an
// order with the given quantity. Most transitions move nothing.
func AdjustmentFor(from, to enums.OrderStatus, quantity int) StockAdjustment {
	if quantity <= 0 {
		return StockAdjustment{}
	}
	switch {
	case CommitsStock(from, to):
		return StockAdjustment{Stock: -quantity, Sold: quantity}
	case ReleasesStock(from, to):
		return StockAdjustment{Stock: quantity, Sold: -quantity}
	default:
		return StockAdjustment{}
	}
}

// ApplyAdjustment applies the delta to the current counters, clamping both at
// zero so replayed or mismatched transitions never drive them negative.
func ApplyAdjustment(stock, sold int, adj StockAdjustment) (newStock, newSold int) {
	newStock = stock + adj.Stock
	if newStock < 0 {
		newStock = 0
	}
	newSold = sold + adj.Sold
	if newSold < 0 {
		newSold = 0
	}
	return newStock, newSold
}

// ActiveForStock derives the listing's visibility flag from its stock level.
// The flag always tracks stock; sellers cannot set it directly.
func ActiveForStock(stock int) bool {
	return stock > 0
}
