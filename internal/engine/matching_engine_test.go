package engine_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matchcore/internal/domain"
	"matchcore/internal/engine"
)

func limit(side domain.Side, price, size float64, id string, ts time.Time) domain.Order {
	return domain.NewLimitOrder(side, price, size, ts, id, "trader", time.Time{}, domain.DefaultPriceDigits)
}

func limitExp(side domain.Side, price, size float64, id string, ts, exp time.Time) domain.Order {
	return domain.NewLimitOrder(side, price, size, ts, id, "trader", exp, domain.DefaultPriceDigits)
}

func market(side domain.Side, size float64, id string, ts time.Time) domain.Order {
	return domain.NewMarketOrder(side, size, ts, id, "trader", time.Time{})
}

// sanitizeTrades zeros the generated trade id, which is seed-derived
// but not meaningful to compare structurally here.
func sanitizeTrades(list []domain.Trade) []domain.Trade {
	out := make([]domain.Trade, len(list))
	for i, tr := range list {
		tr.TradeID = ""
		out[i] = tr
	}
	return out
}

// S1 — matching limit, equal size.
func TestMatch_S1_EqualSizeFill(t *testing.T) {
	eng := engine.New(1)
	tick := time.Unix(1000, 0)

	eng.Match(tick, limit(domain.Sell, 3, 1, "abc", tick))
	executed := eng.Match(tick, limit(domain.Buy, 4, 1, "xyz", tick))

	want := []domain.Trade{{
		Side:            domain.Buy,
		Price:           3,
		Size:            1,
		IncomingOrderID: "xyz",
		BookOrderID:     "abc",
		Execution:       domain.Limit,
		Timestamp:       tick,
	}}
	assert.Equal(t, want, sanitizeTrades(executed.Trades()))
	assert.Equal(t, 0, eng.Book().BidDepth())
	assert.Equal(t, 0, eng.Book().OfferDepth())
}

// S2 — partial fill, aggressor larger.
func TestMatch_S2_PartialFillLargerAggressor(t *testing.T) {
	eng := engine.New(1)
	tick := time.Unix(1000, 0)

	eng.Match(tick, limit(domain.Sell, 3, 1, "abc", tick))
	executed := eng.Match(tick, limit(domain.Buy, 4, 2, "xyz", tick))

	trs := sanitizeTrades(executed.Trades())
	assert.Len(t, trs, 1)
	assert.Equal(t, 3.0, trs[0].Price)
	assert.Equal(t, 1.0, trs[0].Size)

	assert.Equal(t, 1, eng.Book().BidDepth())
	assert.Equal(t, 0, eng.Book().OfferDepth())
	assert.True(t, math.IsInf(eng.Book().CurrentPrice(), 1))

	residual := eng.Book().RestingOrders(domain.Buy, 4)
	assert.Len(t, residual, 1)
	assert.Equal(t, 1.0, residual[0].Size)
}

// S3 — sweep across two levels, market order aggressor.
func TestMatch_S3_SweepAcrossTwoLevels(t *testing.T) {
	eng := engine.New(1)
	tick := time.Unix(1000, 0)

	eng.Match(tick,
		limit(domain.Sell, 5.6, 2.3, "xyz", tick),
		limit(domain.Sell, 6.5, 3.2, "qwe", tick),
	)
	executed := eng.Match(tick, market(domain.Buy, 10, "agg", tick))

	trs := sanitizeTrades(executed.Trades())
	assert.Len(t, trs, 2)
	assert.Equal(t, 5.6, trs[0].Price)
	assert.Equal(t, 2.3, trs[0].Size)
	assert.Equal(t, "xyz", trs[0].BookOrderID)
	assert.Equal(t, 6.5, trs[1].Price)
	assert.Equal(t, 3.2, trs[1].Size)
	assert.Equal(t, "qwe", trs[1].BookOrderID)

	residual := eng.Book().RestingOrders(domain.Buy, math.Inf(1))
	assert.Len(t, residual, 1)
	assert.InDelta(t, 4.5, residual[0].Size, 1e-9)
}

// S4 — time priority across submissions within one tick.
func TestMatch_S4_TimePriorityWithinTick(t *testing.T) {
	eng := engine.New(1)
	base := time.Unix(1_700_000_000, 0)
	day := 24 * time.Hour

	executed := eng.Match(base,
		limit(domain.Buy, 4, 1, "abc", base),
		limit(domain.Buy, 4, 1, "qwe", base.Add(-day)),
		limit(domain.Sell, 4, 0.5, "xyz", base.Add(day)),
	)

	trs := sanitizeTrades(executed.Trades())
	assert.Len(t, trs, 1)
	assert.Equal(t, domain.Sell, trs[0].Side)
	assert.Equal(t, 4.0, trs[0].Price)
	assert.Equal(t, 0.5, trs[0].Size)
	assert.Equal(t, "qwe", trs[0].BookOrderID)

	resting := eng.Book().RestingOrders(domain.Buy, 4)
	assert.Len(t, resting, 2)
	assert.Equal(t, "qwe", resting[0].OrderID)
	assert.Equal(t, 0.5, resting[0].Size)
	assert.Equal(t, "abc", resting[1].OrderID)
	assert.Equal(t, 1.0, resting[1].Size)
}

// S5 — expiration as cancellation.
func TestMatch_S5_ExpirationAsCancellation(t *testing.T) {
	eng := engine.New(1)
	tick := time.Unix(1000, 0)
	day := 24 * time.Hour
	expiration := tick.Add(day)

	eng.Match(tick, limitExp(domain.Buy, 1.2, 3, "xyz", tick, expiration))

	unchanged := eng.Match(tick.Add(day / 2))
	assert.Equal(t, 0, unchanged.Len())
	assert.Equal(t, 1, eng.Book().BidDepth())

	executed := eng.Match(expiration)
	assert.Equal(t, 0, executed.Len())
	assert.Equal(t, 0, eng.Book().BidDepth())
	assert.Equal(t, 0, eng.Book().OfferDepth())
}

func TestMatch_CancelOfUnknownIDIsNoOp(t *testing.T) {
	eng := engine.New(1)
	tick := time.Unix(1000, 0)
	cancel := domain.NewCancel("does-not-exist", tick)

	executed := eng.Match(tick, cancel)
	assert.Equal(t, 0, executed.Len())
}

func TestMatch_EmptyTickIdentity(t *testing.T) {
	eng := engine.New(1)
	tick := time.Unix(1000, 0)
	eng.Match(tick, limit(domain.Buy, 4, 1, "abc", tick))

	before := eng.Book().Summary()
	executed := eng.Match(tick.Add(time.Second))
	after := eng.Book().Summary()

	assert.Equal(t, 0, executed.Len())
	assert.Equal(t, before, after)
}

func TestMatch_DeterministicTradeIDsGivenSameSeed(t *testing.T) {
	tick := time.Unix(1000, 0)
	run := func() []string {
		eng := engine.New(42)
		eng.Match(tick, limit(domain.Sell, 3, 1, "abc", tick))
		executed := eng.Match(tick, limit(domain.Buy, 4, 1, "xyz", tick))
		var out []string
		for _, tr := range executed.Trades() {
			out = append(out, tr.TradeID)
		}
		return out
	}
	assert.Equal(t, run(), run())
}
