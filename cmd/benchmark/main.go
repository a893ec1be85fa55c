package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine"
	"github.com/joripage/exchange-core/pkg/engine/model"
	"github.com/joripage/exchange-core/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minCents  = 10000
	maxCents  = 20000
	minQty    = 1
	maxQty    = 100
)

func randomSubmission() (orderbook.Side, decimal.Decimal, int64) {
	side := orderbook.Bid
	if rand.Intn(2) == 0 {
		side = orderbook.Ask
	}
	cents := int64(rand.Intn(maxCents-minCents+1) + minCents)
	qty := int64(rand.Intn(maxQty-minQty+1) + minQty)
	return side, decimal.New(cents, -2), qty
}

func main() {
	e := engine.New(nil)

	totalMatched := 0
	totalQty := int64(0)
	e.RegisterTradeCallback(func(trades []model.Trade) {
		for _, t := range trades {
			totalMatched++
			totalQty += t.Qty
			if totalMatched <= 5 {
				fmt.Printf("Match: %s <=> %s @ %s Qty %d\n", t.Buyer, t.Seller, t.Price, t.Qty)
			}
		}
	})

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		side, price, qty := randomSubmission()
		if _, err := e.Submit("ABC", side, price, qty, fmt.Sprintf("ACC-%06d", i%1000)); err != nil {
			panic(err)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %d\n", totalQty)
	fmt.Printf("Time Taken       : %s\n", elapsed)
	fmt.Printf("Orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
