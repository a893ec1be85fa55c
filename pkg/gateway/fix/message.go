package fixgateway

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/fix44/ordercancelreject"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

func newExecID() string {
	return uuid.New().String()
}

func buildExecutionReport(order *fixOrder, execType enum.ExecType, ordStatus enum.OrdStatus) executionreport.ExecutionReport {
	order.mu.Lock()
	leaves := order.qty - order.cumQty
	cum := order.cumQty
	avgPx := decimal.Zero
	if cum > 0 {
		avgPx = order.cumNotional.Div(decimal.NewFromInt(cum))
	}
	order.mu.Unlock()

	if ordStatus == enum.OrdStatus_REJECTED || ordStatus == enum.OrdStatus_CANCELED {
		leaves = 0
	}

	report := executionreport.New(
		field.NewOrderID(strconv.FormatInt(order.orderID, 10)),
		field.NewExecID(newExecID()),
		field.NewExecType(execType),
		field.NewOrdStatus(ordStatus),
		field.NewSide(order.side),
		field.NewLeavesQty(decimal.NewFromInt(leaves), 0),
		field.NewCumQty(decimal.NewFromInt(cum), 0),
		field.NewAvgPx(avgPx, 2),
	)

	report.SetClOrdID(order.clOrdID)
	report.SetAccount(order.account)
	report.SetSymbol(order.symbol)
	report.SetOrderQty(decimal.NewFromInt(order.qty), 0)
	report.SetPrice(order.price, 2)
	report.SetTransactTime(time.Now())

	return report
}

func (g *Gateway) sendNew(order *fixOrder) {
	report := buildExecutionReport(order, enum.ExecType_NEW, enum.OrdStatus_NEW)
	g.send(report, order.session)
}

func (g *Gateway) sendFill(order *fixOrder, trade model.Trade, filled bool) {
	ordStatus := enum.OrdStatus_PARTIALLY_FILLED
	if filled {
		ordStatus = enum.OrdStatus_FILLED
	}

	report := buildExecutionReport(order, enum.ExecType_TRADE, ordStatus)
	report.SetLastQty(decimal.NewFromInt(trade.Qty), 0)
	report.SetLastPx(trade.Price, 2)
	g.send(report, order.session)
}

func (g *Gateway) sendCanceled(order *fixOrder) {
	report := buildExecutionReport(order, enum.ExecType_CANCELED, enum.OrdStatus_CANCELED)
	g.send(report, order.session)
}

func (g *Gateway) sendReject(order *fixOrder, reason string) {
	report := buildExecutionReport(order, enum.ExecType_REJECTED, enum.OrdStatus_REJECTED)
	report.SetText(reason)
	g.send(report, order.session)
}

func (g *Gateway) sendCancelReject(sessionID quickfix.SessionID, clOrdID, origClOrdID, reason string) {
	reject := ordercancelreject.New(
		field.NewOrderID("NONE"),
		field.NewClOrdID(clOrdID),
		field.NewOrigClOrdID(origClOrdID),
		field.NewOrdStatus(enum.OrdStatus_REJECTED),
		field.NewCxlRejResponseTo(enum.CxlRejResponseTo_ORDER_CANCEL_REQUEST),
	)
	reject.SetText(reason)
	g.send(reject, sessionID)
}

func (g *Gateway) send(msg quickfix.Messagable, sessionID quickfix.SessionID) {
	if err := quickfix.SendToTarget(msg, sessionID); err != nil {
		zap.S().Errorw("send fix message fail", "session", sessionID.String(), "err", err)
	}
}
