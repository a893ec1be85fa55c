package feed

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

type fakeProducer struct {
	mu     sync.Mutex
	keys   []string
	topics []string
	ids    []int64
	closed bool
}

func (f *fakeProducer) PublishJSON(_ context.Context, topic string, key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, key)
	f.ids = append(f.ids, v.(model.Trade).ID)
	return nil
}

func (f *fakeProducer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func feedTrade(id int64, symbol string) model.Trade {
	return model.Trade{
		ID:     id,
		Symbol: symbol,
		Price:  decimal.RequireFromString("150.00"),
		Qty:    1,
	}
}

func TestFeedPreservesExecutionOrder(t *testing.T) {
	fake := &fakeProducer{}
	f := newFeed(fake, "exchange.trades")

	f.Enqueue([]model.Trade{feedTrade(1, "AAPL"), feedTrade(2, "AAPL")})
	f.Enqueue([]model.Trade{feedTrade(3, "AAPL")})

	ctx, cancel := context.WithCancel(context.Background())
	f.Start(ctx)
	cancel()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not drain")
	}

	if len(fake.ids) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(fake.ids))
	}
	for i, want := range []int64{1, 2, 3} {
		if fake.ids[i] != want {
			t.Errorf("message %d: expected trade %d, got %d", i, want, fake.ids[i])
		}
		if fake.topics[i] != "exchange.trades" {
			t.Errorf("message %d: topic %s", i, fake.topics[i])
		}
		if fake.keys[i] != "AAPL" {
			t.Errorf("message %d: key %s", i, fake.keys[i])
		}
	}

	if err := f.Close(); err != nil || !fake.closed {
		t.Errorf("close: err=%v closed=%v", err, fake.closed)
	}
}

func TestHashKeyStable(t *testing.T) {
	if !bytes.Equal(HashKey("AAPL"), HashKey("AAPL")) {
		t.Error("hash key not stable for equal symbols")
	}
	if bytes.Equal(HashKey("AAPL"), HashKey("MSFT")) {
		t.Error("distinct symbols mapped to the same key")
	}
}
