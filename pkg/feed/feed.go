package feed

import (
	"context"

	"go.uber.org/zap"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

const defaultQueueCapacity = 4096

// tradeProducer is the slice of Producer the feed uses.
type tradeProducer interface {
	PublishJSON(ctx context.Context, topic string, key string, v any) error
	Close() error
}

// TradeFeed forwards executed trade batches to a Kafka topic. A single
// worker goroutine drains the queue, so together with symbol-keyed
// partitioning one symbol's trades reach consumers in execution order.
type TradeFeed struct {
	producer tradeProducer
	topic    string
	queue    chan []model.Trade
	done     chan struct{}
}

func NewTradeFeed(producer *Producer, topic string) *TradeFeed {
	return newFeed(producer, topic)
}

func newFeed(producer tradeProducer, topic string) *TradeFeed {
	return &TradeFeed{
		producer: producer,
		topic:    topic,
		queue:    make(chan []model.Trade, defaultQueueCapacity),
		done:     make(chan struct{}),
	}
}

// Enqueue accepts a trade batch from the engine callback. It never
// blocks: when the queue is full the batch is dropped with an error
// log; the feed is best-effort and must never stall matching.
func (f *TradeFeed) Enqueue(trades []model.Trade) {
	select {
	case f.queue <- trades:
	default:
		zap.S().Errorw("trade feed queue full, dropping batch", "trades", len(trades))
	}
}

// Start runs the publish loop until ctx is cancelled, then drains the
// queue before exiting.
func (f *TradeFeed) Start(ctx context.Context) {
	go f.run(ctx)
}

// Wait blocks until the publish loop has drained and exited.
func (f *TradeFeed) Wait() {
	<-f.done
}

func (f *TradeFeed) run(ctx context.Context) {
	defer close(f.done)

	for {
		select {
		case trades := <-f.queue:
			f.publish(trades)
		case <-ctx.Done():
			for {
				select {
				case trades := <-f.queue:
					f.publish(trades)
				default:
					return
				}
			}
		}
	}
}

// publish sends one message per trade, keyed by symbol. Failures are
// logged and dropped.
func (f *TradeFeed) publish(trades []model.Trade) {
	ctx := context.Background()
	for _, trade := range trades {
		if err := f.producer.PublishJSON(ctx, f.topic, trade.Symbol, trade); err != nil {
			zap.S().Errorw("publish trade to kafka fail",
				"trade_id", trade.ID, "symbol", trade.Symbol, "err", err)
		}
	}
}

func (f *TradeFeed) Close() error {
	return f.producer.Close()
}
