package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/audit"
	"github.com/ariefcatur/go-stock-orders/internal/catalog"
	"github.com/ariefcatur/go-stock-orders/internal/config"
	"github.com/ariefcatur/go-stock-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-stock-orders/internal/kafka"
	"github.com/ariefcatur/go-stock-orders/internal/observability"
	"github.com/ariefcatur/go-stock-orders/internal/orders"
	"github.com/ariefcatur/go-stock-orders/internal/postgres"
	"github.com/ariefcatur/go-stock-orders/internal/postgres/auditrepo"
	"github.com/ariefcatur/go-stock-orders/internal/postgres/orderrepo"
	"github.com/ariefcatur/go-stock-orders/internal/postgres/productrepo"
	"github.com/ariefcatur/go-stock-orders/internal/postgres/userrepo"
	"github.com/ariefcatur/go-stock-orders/internal/redisx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("api: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTelemetry, err := observability.Setup(ctx, cfg.Telemetry, cfg.Server.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.ExportTimeout)
		defer cancel()
		_ = shutdownTelemetry(sctx)
	}()

	logger, err := observability.NewLogger(cfg.Log, cfg.Server.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// DB
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return err
		}
	}
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.Redis)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		logger.Warn("redis unavailable, cache and idempotency degrade", zap.Error(err))
	}

	// Kafka producer
	prodCtx, stopProducer := context.WithCancel(context.Background())
	defer stopProducer()
	prod, err := kafkax.NewProducer(cfg.Kafka, cfg.Server.ServiceName, tp, logger.Named("producer"))
	if err != nil {
		return err
	}
	prod.Start(prodCtx)

	// Repos & services
	users := userrepo.New(db)
	products := productrepo.New(db)
	orderRows := orderrepo.New(db)
	audits := auditrepo.New(db)
	tx := postgres.NewTxManager(db, audit.NewRecorder(audits))

	catalogSvc := catalog.NewService(logger, users, products, tx)
	orderSvc := orders.NewService(logger, users, products, orderRows, tx)
	auditSvc := audit.NewService(audits)

	router := httpx.NewRouter(logger, cfg.Server.RequestTimeout, httpx.Handlers{
		Users:    httpx.NewUsersHandler(catalogSvc, logger),
		Products: httpx.NewProductsHandler(catalogSvc, logger),
		Orders: httpx.NewOrdersHandler(orderSvc,
			redisx.NewOrderCache(rdb),
			redisx.NewIdempotency(rdb),
			orders.NewPublisher(prod, cfg.Server.ServiceName),
			logger,
		),
		Audit: httpx.NewAuditHandler(auditSvc, logger),
	})

	// HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: httpx.Instrument(router, cfg.Server.ServiceName, tp),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	logger.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	stopProducer()    // stop loop -> flush & close writer
	prod.WaitClosed() // drain
	return nil
}
