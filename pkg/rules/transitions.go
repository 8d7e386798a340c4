package rules

import (
	"fmt"

	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
)

// allowedTransitions maps each order status to the statuses a seller may move
// it to. Cancelled is terminal; done can still be cancelled so a seller can
// hand stock back after closing an order by mistake.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusNew:        {enums.OrderStatusInProgress, enums.OrderStatusDone, enums.OrderStatusCancelled},
	enums.OrderStatusInProgress: {enums.OrderStatusDone, enums.OrderStatusCancelled},
	enums.OrderStatusDone:       {enums.OrderStatusCancelled},
	enums.OrderStatusCancelled:  {},
}

// CanTransition reports whether moving from one status to another is allowed.
// A same-status move is permitted and treated as a no-op by callers.
func CanTransition(from, to enums.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// EnsureTransition validates a status change, returning a state conflict for
// disallowed moves.
func EnsureTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", to))
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", from, to)).
			WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	return nil
}
