package rule

import (
	"fmt"

	"github.com/joripage/exchange-core/pkg/orderbook"
	"github.com/shopspring/decimal"
)

type band struct {
	floor decimal.Decimal
	ceil  decimal.Decimal
}

// PriceBandRule rejects orders priced outside a per-symbol band.
// Symbols without a configured band are unrestricted.
type PriceBandRule struct {
	bands map[string]band
}

func NewPriceBandRule() *PriceBandRule {
	return &PriceBandRule{bands: make(map[string]band)}
}

func (r *PriceBandRule) SetBand(symbol string, floor, ceil decimal.Decimal) {
	r.bands[symbol] = band{floor: floor, ceil: ceil}
}

func (r *PriceBandRule) Check(order *orderbook.Order) error {
	b, ok := r.bands[order.Symbol]
	if !ok {
		return nil
	}
	if order.Price.LessThan(b.floor) || order.Price.GreaterThan(b.ceil) {
		return fmt.Errorf("price %s outside band [%s, %s]", order.Price, b.floor, b.ceil)
	}
	return nil
}
