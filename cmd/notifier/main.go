package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-stock-orders/internal/config"
	kafkax "github.com/ariefcatur/go-stock-orders/internal/kafka"
	"github.com/ariefcatur/go-stock-orders/internal/notify"
	"github.com/ariefcatur/go-stock-orders/internal/observability"
	"github.com/ariefcatur/go-stock-orders/internal/orders"
	"github.com/ariefcatur/go-stock-orders/internal/redisx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("notifier: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	serviceName := cfg.Server.ServiceName + "-notifier"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, shutdownTelemetry, err := observability.Setup(ctx, cfg.Telemetry, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.ExportTimeout)
		defer cancel()
		_ = shutdownTelemetry(sctx)
	}()

	logger, err := observability.NewLogger(cfg.Log, serviceName, cfg.Telemetry.Enabled)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Redis
	rdb := redisx.New(cfg.Redis)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		return err
	}

	mailer, err := notify.NewMailer(cfg.SMTP, logger)
	if err != nil {
		return err
	}
	handler := notify.NewHandler(mailer, redisx.NewDedup(rdb, cfg.Kafka.NotifierGroup), logger)

	// Satu consumer per topic, berbagi group yang sama.
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{orders.TopicOrderPlaced, orders.TopicOrderCancelled} {
		cons := kafkax.NewConsumer(cfg.Kafka, topic, logger)
		g.Go(func() error {
			logger.Info("consumer started",
				zap.String("group", cfg.Kafka.NotifierGroup),
				zap.String("topic", topic),
				zap.Int("workers", cfg.Kafka.Workers),
			)
			return cons.Start(gctx, handler.HandleOrderEvent)
		})
	}

	err = g.Wait()
	logger.Info("notifier stopped", zap.Error(err))
	return err
}
