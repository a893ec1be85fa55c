package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/exchange-core/config"
	"github.com/joripage/exchange-core/pkg/archive"
	"github.com/joripage/exchange-core/pkg/engine"
	"github.com/joripage/exchange-core/pkg/feed"
	fixgateway "github.com/joripage/exchange-core/pkg/gateway/fix"
	httpgateway "github.com/joripage/exchange-core/pkg/gateway/http"
	"github.com/joripage/exchange-core/pkg/infra"
	postgres_wrapper "github.com/joripage/exchange-core/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/exchange-core/pkg/infra/redis"
	"github.com/joripage/exchange-core/pkg/logging"
	"github.com/joripage/exchange-core/pkg/marketdata"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger := logging.Init(logging.INFO)
	defer logger.Sync() // nolint

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	e := engine.New(nil)

	var archiver *archive.Archiver
	if cfg.Archive != nil && cfg.Archive.Enable {
		db := postgres_wrapper.InitPostgresWithBackoff(cfg.ArchiveDB)
		infra.GetMigrateTool().Migrate("file://migrations", cfg.ArchiveDB.MigrationConnURL)

		archiver = archive.NewArchiver(archive.NewTradeSQLRepo(db), &archive.ArchiverConfig{
			BatchSize:     cfg.Archive.BatchSize,
			FlushDelay:    time.Duration(cfg.Archive.FlushDelayMs) * time.Millisecond,
			QueueCapacity: cfg.Archive.QueueCapacity,
		})
		archiver.Start(ctx)
		e.RegisterTradeCallback(archiver.Enqueue)
	}

	var publisher *marketdata.Publisher
	if cfg.Marketdata != nil && cfg.Marketdata.Enable {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			panic(err)
		}
		publisher = marketdata.NewPublisher(redisClient)
		publisher.Start(ctx)
		e.RegisterTradeCallback(publisher.Enqueue)
	}

	var tradeFeed *feed.TradeFeed
	if cfg.Kafka != nil && cfg.Kafka.Enable {
		producer := feed.NewProducer(feed.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		tradeFeed = feed.NewTradeFeed(producer, cfg.Kafka.TradesTopic)
		tradeFeed.Start(ctx)
		e.RegisterTradeCallback(tradeFeed.Enqueue)
	}

	var fixGateway *fixgateway.Gateway
	if cfg.Fix != nil && cfg.Fix.Enable {
		fixGateway = fixgateway.NewGateway(e)
		if err := fixGateway.Init(cfg.Fix.SettingsFile); err != nil {
			panic(err)
		}
		if err := fixGateway.Start(); err != nil {
			panic(err)
		}
	}

	addr := ":8080"
	if cfg.HTTP != nil && cfg.HTTP.Addr != "" {
		addr = cfg.HTTP.Addr
	}
	server := &http.Server{
		Addr:    addr,
		Handler: httpgateway.NewRouter(e),
	}
	go func() {
		zap.S().Infow("http gateway listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("http gateway fail", "err", err)
		}
	}()

	fmt.Println("Exchange started. Press Ctrl+C to exit.")
	<-sigs
	fmt.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.S().Warnw("http shutdown fail", "err", err)
	}

	if fixGateway != nil {
		fixGateway.Stop() // nolint
	}

	cancel()
	if archiver != nil {
		archiver.Wait()
	}
	if publisher != nil {
		publisher.Wait()
	}
	if tradeFeed != nil {
		tradeFeed.Wait()
		tradeFeed.Close() // nolint
	}

	fmt.Println("Exited cleanly.")
}
