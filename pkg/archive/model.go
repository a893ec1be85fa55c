// Package archive persists executed trades to Postgres. The in-memory
// ledger is authoritative for live queries; the archive is the durable
// copy that survives restarts and feeds reporting.
package archive

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

// TradeRecord mirrors one ledger trade as a row in the trades table.
type TradeRecord struct {
	ID         int64           `gorm:"primaryKey;column:id"`
	Symbol     string          `gorm:"column:symbol;index:idx_trades_symbol_id"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(18,2)"`
	Qty        int64           `gorm:"column:qty"`
	Buyer      string          `gorm:"column:buyer"`
	Seller     string          `gorm:"column:seller"`
	ExecutedAt time.Time       `gorm:"column:executed_at"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (TradeRecord) TableName() string {
	return "trades"
}

func recordFromTrade(t model.Trade) *TradeRecord {
	return &TradeRecord{
		ID:         t.ID,
		Symbol:     t.Symbol,
		Price:      t.Price,
		Qty:        t.Qty,
		Buyer:      t.Buyer,
		Seller:     t.Seller,
		ExecutedAt: t.Timestamp,
	}
}
