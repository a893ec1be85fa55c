package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one executed match. Trades are immutable once created; the
// ledger owns them for the remainder of the process lifetime.
type Trade struct {
	ID          int64           `json:"id"`
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	Qty         int64           `json:"qty"`
	Buyer       string          `json:"buyer"`
	Seller      string          `json:"seller"`
	BuyOrderID  int64           `json:"buy_order_id"`
	SellOrderID int64           `json:"sell_order_id"`
	Timestamp   time.Time       `json:"timestamp"`
}
