package rule

import (
	"fmt"

	"github.com/joripage/exchange-core/pkg/orderbook"
)

// TickSizeRule rejects prices finer than the instrument's minimum
// increment, expressed in decimal places.
type TickSizeRule struct {
	Places int32
}

func NewTickSizeRule(places int32) *TickSizeRule {
	return &TickSizeRule{Places: places}
}

func (r *TickSizeRule) Check(order *orderbook.Order) error {
	if !order.Price.Equal(order.Price.Round(r.Places)) {
		return fmt.Errorf("price %s finer than tick size of %d decimal places", order.Price, r.Places)
	}
	return nil
}
