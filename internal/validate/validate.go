// Package validate is the thin, optional layer §7 invites: the core
// engine is total and never rejects input, so programmer-error
// detection (duplicate live ids, non-positive admission size, mutation
// of an immutable field) lives here, outside the hot path, for callers
// that want it.
package validate

import (
	"errors"
	"fmt"

	"matchcore/internal/book"
	"matchcore/internal/domain"
)

// Sentinel errors for the programmer-error cases §7 names as "undefined
// behavior at the API level... should be rejected by the calling layer".
var (
	ErrDuplicateOrderID = errors.New("duplicate live order id")
	ErrNonPositiveSize  = errors.New("order size must be positive at admission")
	ErrImmutableField   = errors.New("attempted mutation of an immutable resting-order field")
)

// Admission checks a single incoming, non-cancel order against the
// live book before it reaches the engine's work queue: the order must
// have a positive size and must not reuse an order_id already resting.
func Admission(ob *book.OrderBook, order domain.Order) error {
	if order.Status == domain.Cancel {
		return nil
	}
	if order.Size <= 0 {
		return fmt.Errorf("order %s: %w", order.OrderID, ErrNonPositiveSize)
	}
	if ob.RestingOrderExists(order.OrderID) {
		return fmt.Errorf("order %s: %w", order.OrderID, ErrDuplicateOrderID)
	}
	return nil
}

// Resubmission checks that a resubmission of an existing resting order
// (same order_id) does not attempt to change an immutable field:
// price, side or order_id. Only size (strictly decreasing) and status
// (OPEN to CANCEL) may change over an order's lifetime (§3).
func Resubmission(resting, incoming domain.Order) error {
	if resting.OrderID != incoming.OrderID {
		return nil
	}
	if resting.Side != incoming.Side || resting.Price != incoming.Price {
		return fmt.Errorf("order %s: %w", incoming.OrderID, ErrImmutableField)
	}
	return nil
}
