package orderbook

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
)

// Book holds the resting orders of a single symbol: one FIFO queue per
// price level plus a price heap per side (max-heap for bids, min-heap
// for asks), so the best price is always at the heap top and time
// priority within a level is queue order.
//
// Book is a plain data structure and is not safe for concurrent use.
// The engine serializes all access per symbol and is the sole mutator.
type Book struct {
	symbol string

	bidLevels map[string]*deque.Deque[*Order]
	askLevels map[string]*deque.Deque[*Order]

	bidHeap *PriceHeap
	askHeap *PriceHeap

	ordersByID map[int64]*Order
}

func NewBook(symbol string) *Book {
	bidHeap := NewPriceHeap(func(i, j decimal.Decimal) bool { return i.GreaterThan(j) })
	askHeap := NewPriceHeap(func(i, j decimal.Decimal) bool { return i.LessThan(j) })

	return &Book{
		symbol:     symbol,
		bidLevels:  make(map[string]*deque.Deque[*Order]),
		askLevels:  make(map[string]*deque.Deque[*Order]),
		bidHeap:    bidHeap,
		askHeap:    askHeap,
		ordersByID: make(map[int64]*Order),
	}
}

func (b *Book) Symbol() string {
	return b.symbol
}

func priceKey(p decimal.Decimal) string {
	return p.String()
}

// Insert places an order at the tail of its price level, creating the
// level if needed. Time priority inside a level is insertion order; the
// engine assigns monotonic sequence numbers, so FIFO is exact.
func (b *Book) Insert(order *Order) {
	levels, priceHeap := b.side(order.Side)

	key := priceKey(order.Price)
	q := levels[key]
	if q == nil {
		q = &deque.Deque[*Order]{}
		levels[key] = q
		heap.Push(priceHeap, order.Price)
	}
	q.PushBack(order)
	b.ordersByID[order.ID] = order
}

// BestBid returns the resting bid with the highest price and earliest
// sequence, or false if the bid side is empty.
func (b *Book) BestBid() (*Order, bool) {
	return b.best(Bid)
}

// BestAsk returns the resting ask with the lowest price and earliest
// sequence, or false if the ask side is empty.
func (b *Book) BestAsk() (*Order, bool) {
	return b.best(Ask)
}

func (b *Book) best(side Side) (*Order, bool) {
	levels, priceHeap := b.side(side)

	for {
		price, ok := priceHeap.Peek()
		if !ok {
			return nil, false
		}

		key := priceKey(price)
		q := levels[key]
		if q == nil || q.Len() == 0 {
			// Level drained by Remove; purge lazily.
			heap.Pop(priceHeap)
			delete(levels, key)
			continue
		}

		return q.Front(), true
	}
}

// Remove deletes a resting order by id and reports whether it was
// present. An absent id is a no-op.
func (b *Book) Remove(orderID int64) bool {
	order, ok := b.ordersByID[orderID]
	if !ok {
		return false
	}
	delete(b.ordersByID, orderID)

	levels, _ := b.side(order.Side)
	q := levels[priceKey(order.Price)]
	if q == nil {
		return false
	}
	for i := 0; i < q.Len(); i++ {
		if q.At(i).ID == orderID {
			q.Remove(i)
			return true
		}
	}
	return false
}

// DecrementHead reduces the head order of the given side by qty; a
// fully consumed head is removed and the next order in priority takes
// its place. Decrementing past zero or on an empty side is a matching
// invariant violation and panics.
func (b *Book) DecrementHead(side Side, qty int64) {
	order, ok := b.best(side)
	if !ok {
		panic(fmt.Sprintf("orderbook %s: decrement on empty %s side", b.symbol, side))
	}
	if qty > order.Qty {
		panic(fmt.Sprintf("orderbook %s: decrement %d exceeds resting qty %d (order %d)",
			b.symbol, qty, order.Qty, order.ID))
	}

	order.Qty -= qty
	if order.Qty == 0 {
		levels, _ := b.side(side)
		levels[priceKey(order.Price)].PopFront()
		delete(b.ordersByID, order.ID)
	}
}

// Depth returns copies of all resting orders, bids ordered by price
// descending and asks by price ascending, FIFO within a level.
func (b *Book) Depth() (bids []Order, asks []Order) {
	return b.sideSnapshot(Bid), b.sideSnapshot(Ask)
}

func (b *Book) sideSnapshot(side Side) []Order {
	levels, _ := b.side(side)

	prices := make([]decimal.Decimal, 0, len(levels))
	for _, q := range levels {
		if q.Len() > 0 {
			prices = append(prices, q.Front().Price)
		}
	}
	sort.Slice(prices, func(i, j int) bool {
		if side == Bid {
			return prices[i].GreaterThan(prices[j])
		}
		return prices[i].LessThan(prices[j])
	})

	var out []Order
	for _, price := range prices {
		q := levels[priceKey(price)]
		for i := 0; i < q.Len(); i++ {
			out = append(out, *q.At(i))
		}
	}
	return out
}

// RestingQty returns the total quantity resting across both sides.
func (b *Book) RestingQty() int64 {
	var total int64
	for _, order := range b.ordersByID {
		total += order.Qty
	}
	return total
}

func (b *Book) side(side Side) (map[string]*deque.Deque[*Order], *PriceHeap) {
	if side == Bid {
		return b.bidLevels, b.bidHeap
	}
	return b.askLevels, b.askHeap
}
