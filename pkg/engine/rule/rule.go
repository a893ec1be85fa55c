// Package rule holds pre-trade checks applied to an order before it
// reaches the book.
package rule

import "github.com/joripage/exchange-core/pkg/orderbook"

type Rule interface {
	Check(order *orderbook.Order) error
}
