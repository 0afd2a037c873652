// Package book implements the two-sided, price-indexed order book: the
// bid/offer price-level maps, the expiration index, best-price and
// depth queries, and the volume-imbalance indicator.
package book

import (
	"math"
	"time"

	"github.com/tidwall/btree"

	"matchcore/internal/domain"
	"matchcore/internal/queue"
)

// DepthRow is one row of OrderBook.Summary(): the resting size and
// order count at a single price on a single side.
type DepthRow struct {
	Side  domain.Side
	Price float64
	Size  float64
	Count int
}

// OrderBook holds the two price->queue maps (bids, offers) plus the
// expiration->queue index described in §4.2. Empty queues, and the
// price levels or expiration buckets that contain them, are pruned
// immediately when they empty.
type OrderBook struct {
	bids         *btree.BTreeG[*PriceLevel]
	offers       *btree.BTreeG[*PriceLevel]
	byExpiration *btree.BTreeG[*expirationBucket]

	// byID is the auxiliary order_id -> resting order index §9's design
	// notes call for, so that a cancel carrying only an OrderID can
	// locate the order's side/price/expiration in O(1) instead of
	// scanning every level.
	byID map[string]*domain.Order
}

// New returns an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids:         btree.NewBTreeG(bidLess),
		offers:       btree.NewBTreeG(offerLess),
		byExpiration: btree.NewBTreeG(expirationLess),
		byID:         make(map[string]*domain.Order),
	}
}

// Append inserts order into its side's price level and, if it carries
// an expiration, into the expiration index.
func (ob *OrderBook) Append(order *domain.Order) {
	insertIntoLevels(ob.sameSideLevels(order.Side), order)
	if order.HasExpiration() {
		insertIntoExpiration(ob.byExpiration, order)
	}
	ob.byID[order.OrderID] = order
}

// Remove deletes order from its side's price level (by OrderID) and
// from the expiration index, pruning empty entries from both. Removing
// an order that is not on the book is a silent no-op.
func (ob *OrderBook) Remove(order *domain.Order) {
	ob.RemoveByID(order.OrderID)
}

// RemoveByID removes the resting order identified by orderID from its
// price level and the expiration index, pruning empty entries from
// both, and reports whether an order was actually removed. Removing an
// unknown id is a silent no-op (it returns false).
func (ob *OrderBook) RemoveByID(orderID string) bool {
	order, ok := ob.byID[orderID]
	if !ok {
		return false
	}
	removeFromLevels(ob.sameSideLevels(order.Side), order)
	if order.HasExpiration() {
		removeFromExpiration(ob.byExpiration, order)
	}
	delete(ob.byID, orderID)
	return true
}

// RestingOrderExists reports whether orderID currently identifies a
// live resting order on either side of the book.
func (ob *OrderBook) RestingOrderExists(orderID string) bool {
	_, ok := ob.byID[orderID]
	return ok
}

// MaxBid returns the highest resting bid price, or 0.0 when there are
// no bids.
func (ob *OrderBook) MaxBid() float64 {
	level, ok := ob.bids.Min()
	if !ok {
		return 0.0
	}
	return level.Price
}

// MinOffer returns the lowest resting offer price, or +Inf when there
// are no offers.
func (ob *OrderBook) MinOffer() float64 {
	level, ok := ob.offers.Min()
	if !ok {
		return math.Inf(1)
	}
	return level.Price
}

// CurrentPrice is (MaxBid()+MinOffer())/2. It is a reported convention,
// not an execution price: with one or both sides empty the sentinels
// above make it a display artifact, and callers must not treat it as a
// mid-market fair value.
func (ob *OrderBook) CurrentPrice() float64 {
	return (ob.MaxBid() + ob.MinOffer()) / 2
}

// BidDepth and OfferDepth report the number of distinct resting price
// levels on each side; both zero means an empty book.
func (ob *OrderBook) BidDepth() int   { return ob.bids.Len() }
func (ob *OrderBook) OfferDepth() int { return ob.offers.Len() }

// oppositeSideLevels returns the price levels on the side opposite to
// side: offers for a buy, bids for a sell.
func (ob *OrderBook) oppositeSideLevels(side domain.Side) *btree.BTreeG[*PriceLevel] {
	if side == domain.Buy {
		return ob.offers
	}
	return ob.bids
}

func (ob *OrderBook) sameSideLevels(side domain.Side) *btree.BTreeG[*PriceLevel] {
	if side == domain.Buy {
		return ob.bids
	}
	return ob.offers
}

// MatchingOrderExists reports whether the book currently holds a
// resting order that crosses with order: for a sell, the best bid must
// meet or exceed order's price and bids must be non-empty; symmetrically
// for a buy. Market orders' sentinel prices make this trivially true
// whenever the opposite side is non-empty.
func (ob *OrderBook) MatchingOrderExists(order *domain.Order) bool {
	if order.Side == domain.Sell {
		return order.Price <= ob.MaxBid() && ob.bids.Len() > 0
	}
	return order.Price >= ob.MinOffer() && ob.offers.Len() > 0
}

// MatchingSortedOppositePrices returns the opposite side's price levels
// that still cross with order, ordered best-for-the-aggressor first:
// descending for a sell aggressor (highest bid first), ascending for a
// buy aggressor (lowest offer first).
func (ob *OrderBook) MatchingSortedOppositePrices(order *domain.Order) []float64 {
	var prices []float64
	levels := ob.oppositeSideLevels(order.Side)
	crosses := func(price float64) bool {
		if order.Side == domain.Sell {
			return price >= order.Price
		}
		return price <= order.Price
	}
	// The opposite tree's natural Scan order is already best-for-the-
	// aggressor first (bids: highest price first; offers: lowest price
	// first), so the first price that fails to cross ends the sweep.
	levels.Scan(func(level *PriceLevel) bool {
		if !crosses(level.Price) {
			return false
		}
		prices = append(prices, level.Price)
		return true
	})
	return prices
}

// RestingOrders returns the resting orders at price on side, in time
// priority, without removing them. The caller that mutates their Size
// during a sweep must follow up with SweepZeroSize to keep the level's
// queue and the byID index consistent.
func (ob *OrderBook) RestingOrders(side domain.Side, price float64) []*domain.Order {
	level, ok := ob.sameSideLevels(side).GetMut(&PriceLevel{Price: price})
	if !ok {
		return nil
	}
	return level.Queue.Orders()
}

// SweepZeroSize removes every fully-filled (Size == 0) resting order at
// price on side from the level's queue, the expiration index and the
// byID index, pruning the level itself if it becomes empty.
func (ob *OrderBook) SweepZeroSize(side domain.Side, price float64) {
	levels := ob.sameSideLevels(side)
	level, ok := levels.GetMut(&PriceLevel{Price: price})
	if !ok {
		return
	}
	for _, o := range level.Queue.Orders() {
		if o.Size <= 0 {
			if o.HasExpiration() {
				removeFromExpiration(ob.byExpiration, o)
			}
			delete(ob.byID, o.OrderID)
		}
	}
	level.Queue.RemoveZeroSize()
	if level.Queue.IsEmpty() {
		levels.Delete(&PriceLevel{Price: price})
	}
}

// ExpireBefore returns every resting order, either side, whose
// expiration is at or before timestamp. It does not remove them — the
// caller (the matching engine) injects them as cancels and lets the
// ordinary cancel path perform the removal.
func (ob *OrderBook) ExpireBefore(timestamp time.Time) []*domain.Order {
	var expired []*domain.Order
	ob.byExpiration.Scan(func(bucket *expirationBucket) bool {
		if bucket.Expiration.After(timestamp) {
			return false
		}
		expired = append(expired, bucket.Queue.Orders()...)
		return true
	})
	return expired
}

// Summary returns a flat depth record per resting price level: BUY rows
// ascending by price, then SELL rows ascending by price.
func (ob *OrderBook) Summary() []DepthRow {
	var rows []DepthRow
	// bids is ordered best (highest) first, so ascending price is the
	// tree's Reverse order.
	ob.bids.Reverse(func(level *PriceLevel) bool {
		rows = append(rows, depthRow(domain.Buy, level))
		return true
	})
	ob.offers.Scan(func(level *PriceLevel) bool {
		rows = append(rows, depthRow(domain.Sell, level))
		return true
	})
	return rows
}

func depthRow(side domain.Side, level *PriceLevel) DepthRow {
	var size float64
	for _, o := range level.Queue.Orders() {
		size += o.Size
	}
	return DepthRow{Side: side, Price: level.Price, Size: size, Count: level.Queue.Len()}
}

// Imbalance returns a scalar in [-1,1]: an empty book is 0, a
// single-sided book is +1 (bids only) or -1 (offers only), otherwise
// the signed, size-weighted difference between resting bid and offer
// volume within [current price - band, current price + band].
func (ob *OrderBook) Imbalance(band float64) float64 {
	if ob.bids.Len() == 0 && ob.offers.Len() == 0 {
		return 0
	}
	if ob.offers.Len() == 0 {
		return 1
	}
	if ob.bids.Len() == 0 {
		return -1
	}

	mid := ob.CurrentPrice()
	lower, upper := mid-band, mid+band

	var bidVolume, offerVolume float64
	for _, row := range ob.Summary() {
		if row.Price < lower || row.Price > upper {
			continue
		}
		switch row.Side {
		case domain.Buy:
			bidVolume += row.Size
		case domain.Sell:
			offerVolume += row.Size
		}
	}
	if bidVolume+offerVolume == 0 {
		return 0
	}
	return (bidVolume - offerVolume) / (bidVolume + offerVolume)
}

func insertIntoLevels(levels *btree.BTreeG[*PriceLevel], order *domain.Order) {
	if level, ok := levels.GetMut(&PriceLevel{Price: order.Price}); ok {
		level.Queue.Add(order)
		return
	}
	levels.Set(&PriceLevel{Price: order.Price, Queue: queue.New(order)})
}

func removeFromLevels(levels *btree.BTreeG[*PriceLevel], order *domain.Order) {
	level, ok := levels.GetMut(&PriceLevel{Price: order.Price})
	if !ok {
		return
	}
	level.Queue.Remove(order)
	if level.Queue.IsEmpty() {
		levels.Delete(&PriceLevel{Price: order.Price})
	}
}

func insertIntoExpiration(buckets *btree.BTreeG[*expirationBucket], order *domain.Order) {
	if bucket, ok := buckets.GetMut(&expirationBucket{Expiration: order.Expiration}); ok {
		bucket.Queue.Add(order)
		return
	}
	buckets.Set(&expirationBucket{Expiration: order.Expiration, Queue: queue.New(order)})
}

func removeFromExpiration(buckets *btree.BTreeG[*expirationBucket], order *domain.Order) {
	bucket, ok := buckets.GetMut(&expirationBucket{Expiration: order.Expiration})
	if !ok {
		return
	}
	bucket.Queue.Remove(order)
	if bucket.Queue.IsEmpty() {
		buckets.Delete(&expirationBucket{Expiration: order.Expiration})
	}
}
