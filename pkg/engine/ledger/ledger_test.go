package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

func testTrade(id int64, symbol string) model.Trade {
	return model.Trade{
		ID:        id,
		Symbol:    symbol,
		Price:     decimal.RequireFromString("100.50"),
		Qty:       1,
		Buyer:     "b",
		Seller:    "s",
		Timestamp: time.Date(2025, 6, 2, 9, 30, 0, int(id), time.UTC),
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	l := New()

	for i := int64(1); i <= 4; i++ {
		l.Append(testTrade(i, "AAPL"))
	}
	l.Append(testTrade(5, "MSFT"))

	got := l.Query("AAPL", 0, 0)
	if len(got) != 4 {
		t.Fatalf("expected 4 trades, got %d", len(got))
	}
	for i, trade := range got {
		if trade.ID != int64(i+1) {
			t.Errorf("trade %d out of order: id %d", i, trade.ID)
		}
	}
	if l.Count("MSFT") != 1 {
		t.Errorf("expected 1 MSFT trade, got %d", l.Count("MSFT"))
	}
}

func TestQueryPagination(t *testing.T) {
	l := New()
	for i := int64(1); i <= 5; i++ {
		l.Append(testTrade(i, "AAPL"))
	}

	page := l.Query("AAPL", 1, 2)
	if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Errorf("unexpected page: %+v", page)
	}
	if got := l.Query("AAPL", 7, 2); len(got) != 0 {
		t.Errorf("expected empty page past the end, got %+v", got)
	}
	if got := l.Query("AAPL", -1, 0); len(got) != 5 {
		t.Errorf("expected negative offset clamped, got %d", len(got))
	}
}

func TestQueryUnknownSymbolEmpty(t *testing.T) {
	l := New()
	if got := l.Query("NOPE", 0, 0); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestQueryReturnsCopy(t *testing.T) {
	l := New()
	l.Append(testTrade(1, "AAPL"))

	got := l.Query("AAPL", 0, 0)
	got[0].Qty = 999

	again := l.Query("AAPL", 0, 0)
	if again[0].Qty != 1 {
		t.Errorf("ledger state mutated through query result")
	}
}
