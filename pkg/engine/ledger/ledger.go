// Package ledger keeps the append-only record of executed trades,
// per symbol, in execution order.
package ledger

import (
	"sync"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

type Ledger struct {
	mu     sync.RWMutex
	trades map[string][]model.Trade
}

func New() *Ledger {
	return &Ledger{
		trades: make(map[string][]model.Trade),
	}
}

// Append records a trade at the tail of its symbol's sequence.
func (l *Ledger) Append(trade model.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades[trade.Symbol] = append(l.trades[trade.Symbol], trade)
}

// Query returns trades for a symbol in execution order, skipping
// offset entries and returning at most limit (limit <= 0 means all).
// The returned slice is a copy, never an alias of ledger state. An
// unknown symbol yields an empty result.
func (l *Ledger) Query(symbol string, offset, limit int) []model.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := l.trades[symbol]
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []model.Trade{}
	}

	page := all[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	out := make([]model.Trade, len(page))
	copy(out, page)
	return out
}

// Count returns the number of trades recorded for a symbol.
func (l *Ledger) Count(symbol string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.trades[symbol])
}
