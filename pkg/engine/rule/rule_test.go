package rule

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/orderbook"
)

func order(symbol, price string) *orderbook.Order {
	return &orderbook.Order{
		Symbol: symbol,
		Side:   orderbook.Bid,
		Price:  decimal.RequireFromString(price),
		Qty:    1,
	}
}

func TestTickSizeRule(t *testing.T) {
	r := NewTickSizeRule(2)

	for _, price := range []string{"150", "150.5", "150.05"} {
		if err := r.Check(order("AAPL", price)); err != nil {
			t.Errorf("price %s: unexpected error %v", price, err)
		}
	}
	if err := r.Check(order("AAPL", "150.005")); err == nil {
		t.Error("expected sub-tick price rejected")
	}
}

func TestPriceBandRule(t *testing.T) {
	r := NewPriceBandRule()
	r.SetBand("AAPL", decimal.RequireFromString("100"), decimal.RequireFromString("200"))

	if err := r.Check(order("AAPL", "150")); err != nil {
		t.Errorf("in-band price rejected: %v", err)
	}
	if err := r.Check(order("AAPL", "99.99")); err == nil {
		t.Error("expected below-floor price rejected")
	}
	if err := r.Check(order("AAPL", "200.01")); err == nil {
		t.Error("expected above-ceil price rejected")
	}

	// Unbanded symbols are unrestricted.
	if err := r.Check(order("MSFT", "9999")); err != nil {
		t.Errorf("unbanded symbol rejected: %v", err)
	}
}
