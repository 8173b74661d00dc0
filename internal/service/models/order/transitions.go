package order

import "fmt"

// manualTransitions lists the admin-approved, forward-only moves along the
// fulfillment path. Cancellation stays reachable until the kitchen has
// started preparing.
var manualTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether a manual move from one status to another
// is allowed.
func CanTransition(from, to Status) bool {
	for _, s := range manualTransitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// ValidateManualTransition checks a requested admin transition against the
// order's current state. Confirming an order requires the payment to have
// settled first.
func (o *Order) ValidateManualTransition(to Status) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	if to == StatusConfirmed && o.PaymentStatus != PaymentPaid {
		return fmt.Errorf("%w: cannot confirm unpaid order", ErrInvalidTransition)
	}

	return nil
}
