package model

import "github.com/joripage/exchange-core/pkg/orderbook"

type SubmitStatus string

const (
	// SubmitStatusResting means the order produced no immediate match
	// and rests on the book in full.
	SubmitStatusResting SubmitStatus = "RESTING"
	// SubmitStatusExecuted means the submission generated at least one
	// trade; any unfilled remainder still rests on the book.
	SubmitStatusExecuted SubmitStatus = "EXECUTED"
)

// SubmitResult reports the outcome of one submission: the id assigned
// to the order and every trade generated as an immediate side effect,
// in match order.
type SubmitResult struct {
	Status  SubmitStatus
	OrderID int64
	Trades  []Trade
}

// DepthSnapshot is a read-only view of the resting orders of one
// symbol, sorted per book priority.
type DepthSnapshot struct {
	Symbol string
	Bids   []orderbook.Order
	Asks   []orderbook.Order
}
