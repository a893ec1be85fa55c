package fixgateway

import (
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"
)

func sampleOrder() *fixOrder {
	return &fixOrder{
		orderID:     42,
		clOrdID:     "CL-1",
		account:     "alice",
		symbol:      "AAPL",
		side:        enum.Side_BUY,
		price:       decimal.RequireFromString("150.00"),
		qty:         10,
		cumNotional: decimal.Zero,
	}
}

func TestBuildExecutionReportNew(t *testing.T) {
	report := buildExecutionReport(sampleOrder(), enum.ExecType_NEW, enum.OrdStatus_NEW)

	if got, err := report.GetClOrdID(); err != nil || got != "CL-1" {
		t.Errorf("ClOrdID = %q, err = %v", got, err)
	}
	if got, err := report.GetOrderID(); err != nil || got != "42" {
		t.Errorf("OrderID = %q, err = %v", got, err)
	}
	if got, err := report.GetSymbol(); err != nil || got != "AAPL" {
		t.Errorf("Symbol = %q, err = %v", got, err)
	}
	if got, err := report.GetLeavesQty(); err != nil || !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("LeavesQty = %s, err = %v", got, err)
	}
	if got, err := report.GetCumQty(); err != nil || !got.IsZero() {
		t.Errorf("CumQty = %s, err = %v", got, err)
	}
}

func TestBuildExecutionReportPartialFill(t *testing.T) {
	order := sampleOrder()
	order.cumQty = 4
	order.cumNotional = decimal.RequireFromString("599.00")

	report := buildExecutionReport(order, enum.ExecType_TRADE, enum.OrdStatus_PARTIALLY_FILLED)

	if got, err := report.GetLeavesQty(); err != nil || !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("LeavesQty = %s, err = %v", got, err)
	}
	if got, err := report.GetCumQty(); err != nil || !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("CumQty = %s, err = %v", got, err)
	}
	if got, err := report.GetAvgPx(); err != nil || !got.Equal(decimal.RequireFromString("149.75")) {
		t.Errorf("AvgPx = %s, err = %v", got, err)
	}
}

func TestBuildExecutionReportCanceledZeroesLeaves(t *testing.T) {
	order := sampleOrder()
	order.cumQty = 3
	order.cumNotional = decimal.RequireFromString("450.00")

	report := buildExecutionReport(order, enum.ExecType_CANCELED, enum.OrdStatus_CANCELED)

	if got, err := report.GetLeavesQty(); err != nil || !got.IsZero() {
		t.Errorf("LeavesQty = %s, err = %v", got, err)
	}
	if got, err := report.GetOrdStatus(); err != nil || got != enum.OrdStatus_CANCELED {
		t.Errorf("OrdStatus = %v, err = %v", got, err)
	}
}

func TestExecIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newExecID()
		if seen[id] {
			t.Fatalf("duplicate exec id %s", id)
		}
		seen[id] = true
	}
}
