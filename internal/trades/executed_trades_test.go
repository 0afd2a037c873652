package trades_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matchcore/internal/domain"
	"matchcore/internal/trades"
)

func trade(id string, ts time.Time) domain.Trade {
	return domain.Trade{
		Side:            domain.Buy,
		Price:           100,
		Size:            1,
		IncomingOrderID: "in-" + id,
		BookOrderID:     "book-" + id,
		Execution:       domain.Limit,
		TradeID:         id,
		Timestamp:       ts,
	}
}

func TestAdd_BucketsByTimestamp(t *testing.T) {
	t1 := time.Unix(1000, 0)
	t2 := time.Unix(2000, 0)

	et := trades.New()
	et.Add(trade("a", t1), trade("b", t1), trade("c", t2))

	assert.Len(t, et.Get(t1), 2)
	assert.Len(t, et.Get(t2), 1)
	assert.Empty(t, et.Get(time.Unix(3000, 0)))
	assert.Equal(t, 3, et.Len())
}

func TestTrades_FlatViewInsertionOrder(t *testing.T) {
	t1 := time.Unix(2000, 0)
	t2 := time.Unix(1000, 0)

	et := trades.New()
	et.Add(trade("a", t1))
	et.Add(trade("b", t2))
	et.Add(trade("c", t1))

	var ids []string
	for _, tr := range et.Trades() {
		ids = append(ids, tr.TradeID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestConcat_DoesNotMutateInputs(t *testing.T) {
	t1 := time.Unix(1000, 0)
	left := trades.New(trade("a", t1))
	right := trades.New(trade("b", t1))

	merged := left.Concat(right)

	assert.Equal(t, 1, left.Len())
	assert.Equal(t, 1, right.Len())
	assert.Equal(t, 2, merged.Len())
}
