package domain

import "time"

// Trade is one fill between an incoming (aggressor) order and a resting
// (book) order. Price is always the resting order's price — price
// improvement accrues to the aggressor, never the resting side.
type Trade struct {
	Side            Side
	Price           float64
	Size            float64
	IncomingOrderID string
	BookOrderID     string
	Execution       Execution
	TradeID         string
	// Timestamp is the matching tick's timestamp, not either order's
	// submission timestamp.
	Timestamp time.Time
}
