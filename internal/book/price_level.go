package book

import (
	"time"

	"matchcore/internal/queue"
)

// PriceLevel holds every resting order at a single price, in FIFO
// (arrival) order. Empty levels are pruned from the book the instant
// they empty; a PriceLevel reachable through OrderBook always has a
// non-empty Queue.
type PriceLevel struct {
	Price float64
	Queue *queue.OrderQueue
}

// expirationBucket groups every resting order — either side — sharing
// an absolute expiration timestamp.
type expirationBucket struct {
	Expiration time.Time
	Queue      *queue.OrderQueue
}

func bidLess(a, b *PriceLevel) bool {
	// Greatest first: the highest bid is the best bid.
	return a.Price > b.Price
}

func offerLess(a, b *PriceLevel) bool {
	// Least first: the lowest offer is the best offer.
	return a.Price < b.Price
}

func expirationLess(a, b *expirationBucket) bool {
	return a.Expiration.Before(b.Expiration)
}
