// Package engine implements a continuous double auction with
// price-time priority and midpoint clearing: per-symbol order books,
// a crossing loop that converts each bid/ask cross into an executed
// trade, and an append-only trade ledger.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine/ledger"
	"github.com/joripage/exchange-core/pkg/engine/model"
	"github.com/joripage/exchange-core/pkg/engine/rule"
	"github.com/joripage/exchange-core/pkg/orderbook"
)

var two = decimal.NewFromInt(2)

// Config carries engine construction options. Zero values select the
// defaults: wall-clock time and a 2-decimal-place tick rule.
type Config struct {
	// Clock supplies trade and submission timestamps. Tie-breaks never
	// use it; they use engine-assigned sequence numbers, so replacing
	// the clock cannot change matching outcomes.
	Clock func() time.Time

	// Rules are pre-trade checks applied before the book is touched.
	Rules []rule.Rule
}

// Engine owns every order book and the trade ledger; no other
// component mutates them. All mutating operations on one symbol are
// serialized by that symbol's lock, held across the entire crossing
// loop, so an identical submission sequence always yields identical
// trades and book state. Different symbols proceed in parallel.
type Engine struct {
	books  sync.Map // symbol -> *symbolBook
	ledger *ledger.Ledger
	rules  []rule.Rule
	now    func() time.Time

	orderSeq int64
	tradeSeq int64

	orderSymbols sync.Map // order id -> symbol, for cancel routing

	cbMu      sync.RWMutex
	callbacks []func([]model.Trade)
}

// symbolBook pairs a book with the lock that serializes the symbol
// and the clamp keeping trade timestamps non-decreasing.
type symbolBook struct {
	mu          sync.Mutex
	book        *orderbook.Book
	lastTradeAt time.Time
}

func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	rules := cfg.Rules
	if rules == nil {
		rules = []rule.Rule{rule.NewTickSizeRule(2)}
	}

	return &Engine{
		ledger: ledger.New(),
		rules:  rules,
		now:    now,
	}
}

// RegisterTradeCallback subscribes fn to executed trade batches. The
// callback runs while the symbol is locked, so batches for one symbol
// arrive in execution order; it must not call back into the engine.
func (e *Engine) RegisterTradeCallback(fn func([]model.Trade)) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()

	e.callbacks = append(e.callbacks, fn)
}

// Submit accepts a limit order, rests it on the symbol's book and
// crosses until the book is uncrossed or the order is consumed. The
// result lists every trade generated by this submission in match
// order; the order id is returned whether or not a remainder rests.
func (e *Engine) Submit(symbol string, side orderbook.Side, price decimal.Decimal, qty int64, account string) (*model.SubmitResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if side != orderbook.Bid && side != orderbook.Ask {
		return nil, fmt.Errorf("%w: side %q", ErrInvalidOrder, side)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price %s not positive", ErrInvalidOrder, price)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty %d not positive", ErrInvalidOrder, qty)
	}

	order := &orderbook.Order{
		Symbol:  symbol,
		Side:    side,
		Price:   price,
		Qty:     qty,
		Account: account,
	}
	for _, r := range e.rules {
		if err := r.Check(order); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
	}

	sb := e.bookFor(symbol)
	sb.mu.Lock()
	defer sb.mu.Unlock()

	// Ids and sequence numbers are assigned under the symbol lock so
	// submission order, not caller scheduling, decides time priority.
	order.ID = atomic.AddInt64(&e.orderSeq, 1)
	order.Seq = order.ID
	order.SubmittedAt = e.now()

	sb.book.Insert(order)
	e.orderSymbols.Store(order.ID, symbol)

	trades := e.cross(sb)

	if order.Qty == 0 {
		e.orderSymbols.Delete(order.ID)
	}

	if len(trades) > 0 {
		e.notify(trades)
		return &model.SubmitResult{
			Status:  model.SubmitStatusExecuted,
			OrderID: order.ID,
			Trades:  trades,
		}, nil
	}

	return &model.SubmitResult{
		Status:  model.SubmitStatusResting,
		OrderID: order.ID,
	}, nil
}

// cross runs the crossing loop: while the best bid price is at or
// above the best ask price, trade min(bid.Qty, ask.Qty) at the rounded
// midpoint of the two limit prices and advance whichever head (or
// both) is consumed. Caller holds the symbol lock.
func (e *Engine) cross(sb *symbolBook) []model.Trade {
	var trades []model.Trade

	for {
		bid, ok := sb.book.BestBid()
		if !ok {
			break
		}
		ask, ok := sb.book.BestAsk()
		if !ok {
			break
		}
		if bid.Price.LessThan(ask.Price) {
			break
		}

		matchedQty := bid.Qty
		if ask.Qty < matchedQty {
			matchedQty = ask.Qty
		}

		ts := e.now()
		if ts.Before(sb.lastTradeAt) {
			ts = sb.lastTradeAt
		}
		sb.lastTradeAt = ts

		trade := model.Trade{
			ID:          atomic.AddInt64(&e.tradeSeq, 1),
			Symbol:      sb.book.Symbol(),
			Price:       clearingPrice(bid.Price, ask.Price),
			Qty:         matchedQty,
			Buyer:       bid.Account,
			Seller:      ask.Account,
			BuyOrderID:  bid.ID,
			SellOrderID: ask.ID,
			Timestamp:   ts,
		}

		bidID, askID := bid.ID, ask.ID
		sb.book.DecrementHead(orderbook.Bid, matchedQty)
		sb.book.DecrementHead(orderbook.Ask, matchedQty)
		if bid.Qty == 0 {
			e.orderSymbols.Delete(bidID)
		}
		if ask.Qty == 0 {
			e.orderSymbols.Delete(askID)
		}

		e.ledger.Append(trade)
		trades = append(trades, trade)
	}

	return trades
}

// clearingPrice is the midpoint of the two crossing limit prices,
// rounded to the instrument's minimum increment of two decimal places.
func clearingPrice(bidPrice, askPrice decimal.Decimal) decimal.Decimal {
	return bidPrice.Add(askPrice).Div(two).Round(2)
}

// Cancel removes a resting order. There are no partial-cancel
// semantics: the order leaves the book whole or the call reports
// ErrOrderNotFound.
func (e *Engine) Cancel(orderID int64) error {
	v, ok := e.orderSymbols.Load(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	symbol := v.(string)

	sb := e.bookFor(symbol)
	sb.mu.Lock()
	defer sb.mu.Unlock()

	// The book is the source of truth under the lock; the id map may
	// trail a concurrent fill.
	if !sb.book.Remove(orderID) {
		return ErrOrderNotFound
	}
	e.orderSymbols.Delete(orderID)
	return nil
}

// Depth returns a consistent snapshot of the symbol's resting orders,
// taken under the symbol lock so no half-applied match is ever
// visible. A never-traded symbol yields empty sides.
func (e *Engine) Depth(symbol string) *model.DepthSnapshot {
	snap := &model.DepthSnapshot{
		Symbol: symbol,
		Bids:   []orderbook.Order{},
		Asks:   []orderbook.Order{},
	}

	v, ok := e.books.Load(symbol)
	if !ok {
		return snap
	}
	sb := v.(*symbolBook)

	sb.mu.Lock()
	defer sb.mu.Unlock()

	bids, asks := sb.book.Depth()
	if bids != nil {
		snap.Bids = bids
	}
	if asks != nil {
		snap.Asks = asks
	}
	return snap
}

// Trades returns executed trades for a symbol in ascending execution
// order, paginated by offset/limit (limit <= 0 means all).
func (e *Engine) Trades(symbol string, offset, limit int) []model.Trade {
	return e.ledger.Query(symbol, offset, limit)
}

func (e *Engine) bookFor(symbol string) *symbolBook {
	if v, ok := e.books.Load(symbol); ok {
		return v.(*symbolBook)
	}
	v, _ := e.books.LoadOrStore(symbol, &symbolBook{book: orderbook.NewBook(symbol)})
	return v.(*symbolBook)
}

func (e *Engine) notify(trades []model.Trade) {
	e.cbMu.RLock()
	defer e.cbMu.RUnlock()

	for _, cb := range e.callbacks {
		cb(trades)
	}
}
