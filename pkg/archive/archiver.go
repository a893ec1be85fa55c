package archive

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/exchange-core/pkg/engine/model"
)

const (
	defaultBatchSize     = 200
	defaultFlushDelay    = 250 * time.Millisecond
	defaultQueueCapacity = 4096
)

type ArchiverConfig struct {
	BatchSize     int
	FlushDelay    time.Duration
	QueueCapacity int
}

// Archiver drains trade batches from the matching path into the
// archive repo. Enqueue never blocks: if the queue is full the batch
// is dropped with an error log, because matching latency outranks
// archive completeness and the ledger still holds the trades.
type Archiver struct {
	repo       ITradeRepo
	queue      chan []model.Trade
	batchSize  int
	flushDelay time.Duration
	done       chan struct{}
}

func NewArchiver(repo ITradeRepo, cfg *ArchiverConfig) *Archiver {
	if cfg == nil {
		cfg = &ArchiverConfig{}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = defaultFlushDelay
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = defaultQueueCapacity
	}

	return &Archiver{
		repo:       repo,
		queue:      make(chan []model.Trade, cfg.QueueCapacity),
		batchSize:  cfg.BatchSize,
		flushDelay: cfg.FlushDelay,
		done:       make(chan struct{}),
	}
}

// Enqueue accepts a trade batch from the engine callback.
func (a *Archiver) Enqueue(trades []model.Trade) {
	select {
	case a.queue <- trades:
	default:
		zap.S().Errorw("archive queue full, dropping batch", "trades", len(trades))
	}
}

// Start runs the flush loop until ctx is cancelled, then drains the
// queue and flushes what remains.
func (a *Archiver) Start(ctx context.Context) {
	go a.run(ctx)
}

// Wait blocks until the flush loop has drained and exited.
func (a *Archiver) Wait() {
	<-a.done
}

func (a *Archiver) run(ctx context.Context) {
	defer close(a.done)

	var pending []*TradeRecord
	timer := time.NewTimer(a.flushDelay)
	defer timer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if _, err := a.repo.BulkCreate(context.Background(), pending); err != nil {
			zap.S().Errorw("archive flush fail", "records", len(pending), "err", err)
		}
		pending = nil
	}

	for {
		select {
		case trades := <-a.queue:
			for _, trade := range trades {
				pending = append(pending, recordFromTrade(trade))
			}
			if len(pending) >= a.batchSize {
				flush()
			}
		case <-timer.C:
			flush()
			timer.Reset(a.flushDelay)
		case <-ctx.Done():
			for {
				select {
				case trades := <-a.queue:
					for _, trade := range trades {
						pending = append(pending, recordFromTrade(trade))
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
