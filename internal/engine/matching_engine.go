// Package engine implements MatchingEngine, the per-tick orchestrator
// that admits orders, injects expirations, and sweeps the order book in
// strict price-time priority.
package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"matchcore/internal/book"
	"matchcore/internal/domain"
	"matchcore/internal/queue"
	"matchcore/internal/trades"
)

// Metrics is the subset of observability the engine pushes into after a
// tick. A *metrics.Collector satisfies it; nil is valid and disables
// metrics entirely.
type Metrics interface {
	ObserveTick(tradeCount int, bidDepth, offerDepth int, imbalance float64)
}

// MatchingEngine is the sole mutation entry point over a persistent
// OrderBook. It is single-threaded and synchronous: Match runs to
// completion before returning and no operation blocks or yields (§5).
type MatchingEngine struct {
	book *book.OrderBook
	ids  *tradeIDGenerator

	logger  *zerolog.Logger
	metrics Metrics

	// imbalanceBand is the L used when metrics observe the post-tick
	// imbalance. It has no effect on matching itself.
	imbalanceBand float64

	now time.Time
}

// New constructs an engine with an empty book and a trade-id generator
// seeded by seed. §5 requires that the same seed and the same input
// sequence reproduce the same trade ids; seed is the caller's knob for
// that.
func New(seed int64) *MatchingEngine {
	return &MatchingEngine{
		book:          book.New(),
		ids:           newTradeIDGenerator(seed),
		imbalanceBand: 0,
	}
}

// SetLogger installs a structured logger for tick-level observability.
// A nil logger restores the package-global zerolog logger, mirroring
// the teacher's own default in internal/server.go and internal/worker.go.
func (e *MatchingEngine) SetLogger(logger *zerolog.Logger) {
	e.logger = logger
}

// SetMetrics installs an optional metrics sink, observed once at the
// end of every Match call.
func (e *MatchingEngine) SetMetrics(m Metrics) {
	e.metrics = m
}

// SetImbalanceBand sets the band used to compute the imbalance reported
// to metrics after each tick.
func (e *MatchingEngine) SetImbalanceBand(band float64) {
	e.imbalanceBand = band
}

// ImbalanceBand returns the band last set with SetImbalanceBand.
func (e *MatchingEngine) ImbalanceBand() float64 {
	return e.imbalanceBand
}

// Book exposes read-only access to the live order book: bids, offers,
// current_price, summary, and imbalance (§6).
func (e *MatchingEngine) Book() *book.OrderBook {
	return e.book
}

func (e *MatchingEngine) log() *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return &log.Logger
}

// Match is the tick algorithm of §4.3.1. It sets the tick timestamp,
// admits orders (re-sorted by submission timestamp), injects expired
// resting orders as cancels interleaved by their own timestamp, then
// drains the combined work queue in time order, accumulating trades.
func (e *MatchingEngine) Match(timestamp time.Time, orders ...domain.Order) *trades.ExecutedTrades {
	e.now = timestamp

	work := queue.New()
	for i := range orders {
		work.Add(&orders[i])
	}

	expired := e.book.ExpireBefore(timestamp)
	for _, o := range expired {
		cancel := domain.NewCancel(o.OrderID, o.Timestamp)
		work.Add(&cancel)
	}

	tick := trades.New()
	for !work.IsEmpty() {
		order := work.Dequeue()
		tick.Add(e.process(order)...)
	}

	e.log().Debug().
		Time("tick", timestamp).
		Int("orders_in", len(orders)).
		Int("expired", len(expired)).
		Int("trades_out", tick.Len()).
		Msg("tick complete")

	if e.metrics != nil {
		e.metrics.ObserveTick(tick.Len(), e.book.BidDepth(), e.book.OfferDepth(), e.book.Imbalance(e.imbalanceBand))
	}

	return tick
}

// process handles exactly one work-queue entry per §4.3.2.
func (e *MatchingEngine) process(order *domain.Order) []domain.Trade {
	if order.Status == domain.Cancel {
		if e.book.RemoveByID(order.OrderID) {
			e.log().Debug().Str("order_id", order.OrderID).Msg("cancelled")
		} else {
			e.log().Warn().Str("order_id", order.OrderID).Msg("cancel of unknown order")
		}
		return nil
	}

	if !e.book.MatchingOrderExists(order) {
		e.book.Append(order)
		e.log().Debug().Str("order_id", order.OrderID).Float64("price", order.Price).Msg("posted, no cross")
		return nil
	}

	return e.execute(order)
}

// execute sweeps the opposite side in aggressor-best price order,
// filling order against resting orders in FIFO time priority, per
// §4.3.3.
func (e *MatchingEngine) execute(order *domain.Order) []domain.Trade {
	var fills []domain.Trade

	for _, price := range e.book.MatchingSortedOppositePrices(order) {
		if order.Size <= 0 {
			break
		}

		opposite := domain.Opposite(order.Side)
		restingOrders := e.book.RestingOrders(opposite, price)

		for _, resting := range restingOrders {
			if order.Size <= 0 {
				break
			}
			fillSize := min(order.Size, resting.Size)
			if fillSize <= 0 {
				continue
			}

			order.Size -= fillSize
			resting.Size -= fillSize

			fills = append(fills, domain.Trade{
				Side:            order.Side,
				Price:           resting.Price,
				Size:            fillSize,
				IncomingOrderID: order.OrderID,
				BookOrderID:     resting.OrderID,
				Execution:       order.Execution,
				TradeID:         e.ids.next(),
				Timestamp:       e.now,
			})
		}

		e.book.SweepZeroSize(opposite, price)
	}

	if order.Size > 0 {
		e.book.Append(order)
		e.log().Debug().Str("order_id", order.OrderID).Float64("residual", order.Size).Msg("residual posted")
	}

	return fills
}
