package fixgateway

import (
	"errors"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/exchange-core/pkg/engine"
	"github.com/joripage/exchange-core/pkg/engine/model"
	"github.com/joripage/exchange-core/pkg/orderbook"

	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelrequest"
)

// Gateway owns the FIX-side view of orders: clOrdID assignment,
// session routing, and execution report fan-out. Orders submitted over
// HTTP never enter these maps and produce no reports.
type Gateway struct {
	engine         *engine.Engine
	app            *Application
	configFilepath string

	orders   sync.Map // engine order id -> *fixOrder
	clOrdIDs sync.Map // clOrdID -> engine order id
}

// fixOrder tracks one FIX order's fill state for reporting.
type fixOrder struct {
	mu sync.Mutex

	orderID     int64
	clOrdID     string
	account     string
	symbol      string
	side        enum.Side
	price       decimal.Decimal
	qty         int64
	cumQty      int64
	cumNotional decimal.Decimal
	session     quickfix.SessionID
}

func NewGateway(e *engine.Engine) *Gateway {
	g := &Gateway{engine: e}
	// Resting FIX orders can be filled by takers arriving over any
	// transport; the engine callback catches those fills. A submitting
	// FIX order is not yet registered when the callback fires, so its
	// own fills are reported after Submit returns.
	e.RegisterTradeCallback(g.reportFills)
	return g
}

func (g *Gateway) Init(configFilepath string) error {
	g.configFilepath = configFilepath
	return nil
}

func (g *Gateway) Start() error {
	app, err := startApp(g.configFilepath, g)
	if err != nil {
		zap.S().Errorw("start fix gateway fail", "err", err)
		return err
	}
	g.app = app
	return nil
}

func (g *Gateway) Stop() error {
	if g.app != nil {
		stopApp(g.app)
	}
	return nil
}

func (g *Gateway) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	account, _ := msg.GetAccount()
	symbol, _ := msg.GetSymbol()
	fixSide, _ := msg.GetSide()
	ordType, _ := msg.GetOrdType()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()

	order := &fixOrder{
		clOrdID:     clOrdID,
		account:     account,
		symbol:      symbol,
		side:        fixSide,
		price:       price,
		qty:         orderQty.IntPart(),
		cumNotional: decimal.Zero,
		session:     sessionID,
	}

	if ordType != enum.OrdType_LIMIT {
		g.sendReject(order, "only limit orders are supported")
		return nil
	}

	if !orderQty.Equal(orderQty.Truncate(0)) {
		g.sendReject(order, "order quantity must be a whole number")
		return nil
	}

	side, ok := map[enum.Side]orderbook.Side{
		enum.Side_BUY:  orderbook.Bid,
		enum.Side_SELL: orderbook.Ask,
	}[fixSide]
	if !ok {
		g.sendReject(order, "unsupported side")
		return nil
	}

	res, err := g.engine.Submit(symbol, side, price, order.qty, account)
	if err != nil {
		g.sendReject(order, err.Error())
		return nil
	}

	order.orderID = res.OrderID
	g.orders.Store(order.orderID, order)
	g.clOrdIDs.Store(clOrdID, order.orderID)

	g.sendNew(order)
	for _, trade := range res.Trades {
		if trade.BuyOrderID == order.orderID || trade.SellOrderID == order.orderID {
			g.reportFill(order.orderID, trade)
		}
	}
	return nil
}

func (g *Gateway) onOrderCancelRequest(msg ordercancelrequest.OrderCancelRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	origClOrdID, _ := msg.GetOrigClOrdID()

	v, ok := g.clOrdIDs.Load(origClOrdID)
	if !ok {
		g.sendCancelReject(sessionID, clOrdID, origClOrdID, "unknown order")
		return nil
	}
	orderID := v.(int64)

	if err := g.engine.Cancel(orderID); err != nil {
		if errors.Is(err, engine.ErrOrderNotFound) {
			g.sendCancelReject(sessionID, clOrdID, origClOrdID, "too late to cancel")
		} else {
			g.sendCancelReject(sessionID, clOrdID, origClOrdID, err.Error())
		}
		return nil
	}

	if v, ok := g.orders.LoadAndDelete(orderID); ok {
		g.clOrdIDs.Delete(origClOrdID)
		g.sendCanceled(v.(*fixOrder))
	}
	return nil
}

// reportFills is the engine trade callback: it sends a trade report to
// every registered FIX order touched by the batch. Orders submitted
// over other transports are not in the map and are skipped.
func (g *Gateway) reportFills(trades []model.Trade) {
	for _, trade := range trades {
		g.reportFill(trade.BuyOrderID, trade)
		g.reportFill(trade.SellOrderID, trade)
	}
}

func (g *Gateway) reportFill(orderID int64, trade model.Trade) {
	v, ok := g.orders.Load(orderID)
	if !ok {
		return
	}
	order := v.(*fixOrder)

	order.mu.Lock()
	order.cumQty += trade.Qty
	order.cumNotional = order.cumNotional.Add(trade.Price.Mul(decimal.NewFromInt(trade.Qty)))
	filled := order.cumQty >= order.qty
	order.mu.Unlock()

	g.sendFill(order, trade, filled)

	if filled {
		g.orders.Delete(orderID)
		g.clOrdIDs.Delete(order.clOrdID)
	}
}
