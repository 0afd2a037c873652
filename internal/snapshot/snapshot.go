// Package snapshot converts the order book and trade collections into
// flat tabular rows, the abstract export contract of §6: any tabular
// library downstream can consume these without knowing about btree,
// OrderQueue, or any other internal representation.
package snapshot

import (
	"time"

	"matchcore/internal/book"
	"matchcore/internal/domain"
	"matchcore/internal/trades"
)

// BookSummaryRow is one row of a book summary export: side, price,
// resting size and order count at that price.
type BookSummaryRow struct {
	Side  string
	Price float64
	Size  float64
	Count int
}

// BookSummary renders ob.Summary() as the tabular form of §6: rows
// grouped by side, ascending by price within each group, side rendered
// as its enum name.
func BookSummary(ob *book.OrderBook) []BookSummaryRow {
	depth := ob.Summary()
	rows := make([]BookSummaryRow, 0, len(depth))
	for _, d := range depth {
		rows = append(rows, BookSummaryRow{
			Side:  d.Side.String(),
			Price: d.Price,
			Size:  d.Size,
			Count: d.Count,
		})
	}
	return rows
}

// TradeRow is one row of a trade-log export.
type TradeRow struct {
	Side            string
	Price           float64
	Size            float64
	Timestamp       time.Time
	IncomingOrderID string
	BookOrderID     string
	TradeID         string
	Execution       string
}

// TradeLog renders a flat trade view as the tabular form of §6.
func TradeLog(list []domain.Trade) []TradeRow {
	rows := make([]TradeRow, 0, len(list))
	for _, t := range list {
		rows = append(rows, TradeRow{
			Side:            t.Side.String(),
			Price:           t.Price,
			Size:            t.Size,
			Timestamp:       t.Timestamp,
			IncomingOrderID: t.IncomingOrderID,
			BookOrderID:     t.BookOrderID,
			TradeID:         t.TradeID,
			Execution:       t.Execution.String(),
		})
	}
	return rows
}

// ExecutedTradesLog renders every trade held by et, in insertion order,
// as the tabular form of §6.
func ExecutedTradesLog(et *trades.ExecutedTrades) []TradeRow {
	return TradeLog(et.Trades())
}

// OrderRow is one row of an order export, with side, execution and
// status rendered as their enum names.
type OrderRow struct {
	Side       string
	Price      float64
	Size       float64
	Timestamp  time.Time
	OrderID    string
	TraderID   string
	Execution  string
	Expiration time.Time
	Status     string
}

// Orders renders a slice of domain orders as the tabular form of §6.
func Orders(list []*domain.Order) []OrderRow {
	rows := make([]OrderRow, 0, len(list))
	for _, o := range list {
		rows = append(rows, OrderRow{
			Side:       o.Side.String(),
			Price:      o.Price,
			Size:       o.Size,
			Timestamp:  o.Timestamp,
			OrderID:    o.OrderID,
			TraderID:   o.TraderID,
			Execution:  o.Execution.String(),
			Expiration: o.Expiration,
			Status:     o.Status.String(),
		})
	}
	return rows
}
