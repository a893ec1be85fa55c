package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Bid Side = "BID"
	Ask Side = "ASK"
)

// Opposite returns the counter side.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Order is a resting intent to trade. IDs and sequence numbers are
// assigned by the engine on acceptance; Seq is the FIFO tie-break
// within a price level and is monotonic per engine instance. Qty is
// mutated only by the engine as partial fills consume it.
type Order struct {
	ID          int64
	Symbol      string
	Side        Side
	Price       decimal.Decimal
	Qty         int64
	Account     string
	Seq         int64
	SubmittedAt time.Time
}
