// Package trades implements ExecutedTrades, the append-only collector
// of trades a matching tick produces, grouped by timestamp.
package trades

import (
	"time"

	"matchcore/internal/domain"
)

// ExecutedTrades is an ordered collection of trades, addressable by the
// timestamp they were executed at. §9's open question on the trade
// collector's shape is resolved in favor of this keyed variant — it is
// strictly more expressive than a flat list, from which one is trivial
// to derive (see Trades()).
type ExecutedTrades struct {
	order []time.Time
	byTS  map[time.Time][]domain.Trade
}

// New builds an ExecutedTrades from an optional seed sequence.
func New(seed ...domain.Trade) *ExecutedTrades {
	t := &ExecutedTrades{byTS: make(map[time.Time][]domain.Trade)}
	t.Add(seed...)
	return t
}

// Add appends trades, bucketing each by its Timestamp.
func (t *ExecutedTrades) Add(batch ...domain.Trade) {
	for _, trade := range batch {
		if _, seen := t.byTS[trade.Timestamp]; !seen {
			t.order = append(t.order, trade.Timestamp)
		}
		t.byTS[trade.Timestamp] = append(t.byTS[trade.Timestamp], trade)
	}
}

// Get returns the trades executed at exactly timestamp, or an empty
// slice when none were.
func (t *ExecutedTrades) Get(timestamp time.Time) []domain.Trade {
	return append([]domain.Trade(nil), t.byTS[timestamp]...)
}

// Trades is the flat view: the concatenation of per-timestamp buckets
// in the order each timestamp was first seen.
func (t *ExecutedTrades) Trades() []domain.Trade {
	var all []domain.Trade
	for _, ts := range t.order {
		all = append(all, t.byTS[ts]...)
	}
	return all
}

// Len reports the total number of trades across all timestamps.
func (t *ExecutedTrades) Len() int {
	return len(t.Trades())
}

// Concat returns a new ExecutedTrades holding both inputs' trades.
// Neither input is mutated.
func (t *ExecutedTrades) Concat(other *ExecutedTrades) *ExecutedTrades {
	merged := New(t.Trades()...)
	if other != nil {
		merged.Add(other.Trades()...)
	}
	return merged
}
