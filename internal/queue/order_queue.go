// Package queue implements OrderQueue, the time-sorted sequence of
// orders shared by the matching engine's work queue and every
// price-level FIFO in the order book.
package queue

import (
	"sort"

	"matchcore/internal/domain"
)

// OrderQueue is a time-sorted sequence of orders. Ordering key is
// Timestamp only; ties are broken by stable-sort insertion order, which
// is the secondary tie-break for time priority (§4.1).
//
// Orders are held by pointer so that a resting order's Size can be
// mutated in place during matching without the queue, the book, and the
// aggressor all drifting out of sync over independent copies.
//
// Duplicates (two entries sharing an OrderID) are permitted here —
// uniqueness is an OrderBook concern, not this structure's.
type OrderQueue struct {
	orders []*domain.Order
}

// New builds an OrderQueue from an optional seed sequence, already
// sorted by timestamp.
func New(seed ...*domain.Order) *OrderQueue {
	q := &OrderQueue{orders: append([]*domain.Order(nil), seed...)}
	q.sort()
	return q
}

// Add appends orders and re-sorts the whole queue by timestamp
// (stable).
func (q *OrderQueue) Add(orders ...*domain.Order) {
	q.orders = append(q.orders, orders...)
	q.sort()
}

// IsEmpty reports whether the queue holds no orders.
func (q *OrderQueue) IsEmpty() bool {
	return len(q.orders) == 0
}

// Len returns the number of orders currently queued.
func (q *OrderQueue) Len() int {
	return len(q.orders)
}

// Dequeue removes and returns the earliest order. It is undefined on an
// empty queue; callers must check IsEmpty first.
func (q *OrderQueue) Dequeue() *domain.Order {
	o := q.orders[0]
	q.orders = q.orders[1:]
	return o
}

// Remove deletes, for each input order, the first resident order
// sharing its OrderID. Unknown ids are silently ignored. Matching is by
// identity (OrderID), never by value, because a resting order's Size
// mutates during matching while a cancel message still carries the
// order's original size.
func (q *OrderQueue) Remove(orders ...*domain.Order) {
	for _, toRemove := range orders {
		for i, resident := range q.orders {
			if resident.OrderID == toRemove.OrderID {
				q.orders = append(q.orders[:i], q.orders[i+1:]...)
				break
			}
		}
	}
}

// RemoveZeroSize deletes every resident order whose Size has decayed to
// 0. It is a second pass over the queue, run after a sweep, rather than
// a remove-while-iterating splice — naive iterator invalidation during
// the sweep itself would skip or double-visit entries.
func (q *OrderQueue) RemoveZeroSize() {
	live := q.orders[:0]
	for _, o := range q.orders {
		if o.Size > 0 {
			live = append(live, o)
		}
	}
	q.orders = live
}

// Orders returns the queue's contents in current order. The returned
// slice is a fresh copy of the queue's internal slice, but the pointed-
// to Order values are shared with the queue.
func (q *OrderQueue) Orders() []*domain.Order {
	return append([]*domain.Order(nil), q.orders...)
}

// Concat returns a new queue containing both inputs' orders, re-sorted
// by timestamp. Neither input queue is mutated.
func (q *OrderQueue) Concat(other *OrderQueue) *OrderQueue {
	merged := New(q.orders...)
	if other != nil {
		merged.Add(other.orders...)
	}
	return merged
}

func (q *OrderQueue) sort() {
	sort.SliceStable(q.orders, func(i, j int) bool {
		return q.orders[i].Timestamp.Before(q.orders[j].Timestamp)
	})
}
