// Package marketdata pushes last-trade ticks over Redis pub/sub for
// UI and quote consumers. Channel layout: md.trades.<symbol>.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

const (
	channelPrefix        = "md.trades."
	defaultQueueCapacity = 4096
)

// redisClient is the slice of *redis.Client the publisher uses.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Publisher drains trade batches from the matching path to Redis. A
// single worker goroutine publishes, so ticks for one symbol go out in
// execution order and the cached last trade never goes backwards.
type Publisher struct {
	client redisClient
	queue  chan []model.Trade
	done   chan struct{}
}

func NewPublisher(client *redis.Client) *Publisher {
	return newPublisher(client)
}

func newPublisher(client redisClient) *Publisher {
	return &Publisher{
		client: client,
		queue:  make(chan []model.Trade, defaultQueueCapacity),
		done:   make(chan struct{}),
	}
}

// ChannelFor returns the pub/sub channel carrying a symbol's ticks.
func ChannelFor(symbol string) string {
	return channelPrefix + symbol
}

// LastTradeKey is where the most recent tick per symbol is cached for
// snapshot reads.
func LastTradeKey(symbol string) string {
	return fmt.Sprintf("md.last.%s", symbol)
}

// Enqueue accepts a trade batch from the engine callback. It never
// blocks: when the queue is full the batch is dropped with an error
// log, because a slow or down Redis must never stall matching.
func (p *Publisher) Enqueue(trades []model.Trade) {
	select {
	case p.queue <- trades:
	default:
		zap.S().Errorw("marketdata queue full, dropping batch", "trades", len(trades))
	}
}

// Start runs the publish loop until ctx is cancelled, then drains the
// queue before exiting.
func (p *Publisher) Start(ctx context.Context) {
	go p.run(ctx)
}

// Wait blocks until the publish loop has drained and exited.
func (p *Publisher) Wait() {
	<-p.done
}

func (p *Publisher) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case trades := <-p.queue:
			p.publish(trades)
		case <-ctx.Done():
			for {
				select {
				case trades := <-p.queue:
					p.publish(trades)
				default:
					return
				}
			}
		}
	}
}

// publish fans a batch out to the per-symbol channels and refreshes
// the cached last trade of each symbol touched.
func (p *Publisher) publish(trades []model.Trade) {
	ctx := context.Background()
	last := map[string][]byte{}

	for _, trade := range trades {
		payload, err := json.Marshal(trade)
		if err != nil {
			zap.S().Errorw("marshal trade tick fail", "trade_id", trade.ID, "err", err)
			continue
		}
		if err := p.client.Publish(ctx, ChannelFor(trade.Symbol), payload).Err(); err != nil {
			zap.S().Errorw("publish trade tick fail",
				"channel", ChannelFor(trade.Symbol), "err", err)
		}
		last[trade.Symbol] = payload
	}

	for symbol, payload := range last {
		if err := p.client.Set(ctx, LastTradeKey(symbol), payload, 0).Err(); err != nil {
			zap.S().Errorw("cache last trade fail", "symbol", symbol, "err", err)
		}
	}
}
