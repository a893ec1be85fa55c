package archive

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

type memRepo struct {
	mu      sync.Mutex
	records []*TradeRecord
}

func (m *memRepo) Create(_ context.Context, record *TradeRecord) (*TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return record, nil
}

func (m *memRepo) BulkCreate(_ context.Context, records []*TradeRecord) ([]*TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return records, nil
}

func (m *memRepo) ListBySymbol(_ context.Context, symbol string, offset, limit int) ([]*TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*TradeRecord
	for _, r := range m.records {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) CountBySymbol(_ context.Context, symbol string) (int64, error) {
	rs, _ := m.ListBySymbol(context.Background(), symbol, 0, 0)
	return int64(len(rs)), nil
}

func (m *memRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func sampleTrades(n int) []model.Trade {
	trades := make([]model.Trade, n)
	for i := range trades {
		trades[i] = model.Trade{
			ID:        int64(i + 1),
			Symbol:    "AAPL",
			Price:     decimal.RequireFromString("150.25"),
			Qty:       1,
			Buyer:     "b",
			Seller:    "s",
			Timestamp: time.Now(),
		}
	}
	return trades
}

func TestArchiverFlushesOnBatchSize(t *testing.T) {
	repo := &memRepo{}
	a := NewArchiver(repo, &ArchiverConfig{BatchSize: 3, FlushDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)

	a.Enqueue(sampleTrades(3))

	deadline := time.After(2 * time.Second)
	for repo.len() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 records flushed, got %d", repo.len())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	a.Wait()
}

func TestArchiverDrainsOnShutdown(t *testing.T) {
	repo := &memRepo{}
	a := NewArchiver(repo, &ArchiverConfig{BatchSize: 1000, FlushDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)

	a.Enqueue(sampleTrades(5))
	cancel()
	a.Wait()

	if repo.len() != 5 {
		t.Fatalf("expected 5 records after drain, got %d", repo.len())
	}
}

func TestRecordFromTrade(t *testing.T) {
	trade := model.Trade{
		ID:        7,
		Symbol:    "MSFT",
		Price:     decimal.RequireFromString("410.55"),
		Qty:       3,
		Buyer:     "alice",
		Seller:    "bob",
		Timestamp: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
	}

	rec := recordFromTrade(trade)
	if rec.ID != 7 || rec.Symbol != "MSFT" || rec.Qty != 3 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.Price.Equal(trade.Price) {
		t.Errorf("price mismatch: %s", rec.Price)
	}
	if !rec.ExecutedAt.Equal(trade.Timestamp) {
		t.Errorf("timestamp mismatch: %s", rec.ExecutedAt)
	}
}
