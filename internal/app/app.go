package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/elemming-specialisterne/uge8-OrderDocker/internal/health"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/messaging/kafka"
	idempotencysvc "github.com/elemming-specialisterne/uge8-OrderDocker/internal/service/idempotency"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/service/order"
	outboxsvc "github.com/elemming-specialisterne/uge8-OrderDocker/internal/service/outbox"
	transporthttp "github.com/elemming-specialisterne/uge8-OrderDocker/internal/transport/http"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run собирает приложение и обслуживает запросы до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	orderService := order.NewService(
		deps.Orders,
		deps.Users,
		deps.Catalog,
		deps.Outbox,
		logger.WithField("component", "order-service"),
	)

	// Фоновые воркеры: публикация outbox (только при настроенной Kafka)
	// и очистка просроченных idempotency-ключей.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var workers sync.WaitGroup
	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents)
		worker := outboxsvc.NewWorker(
			deps.Outbox,
			publisher,
			outboxsvc.WithLogger(logger.WithField("component", "outbox-worker")),
			outboxsvc.WithPollInterval(cfg.OutboxPollInterval),
			outboxsvc.WithBatchSize(cfg.OutboxBatchSize),
		)
		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Run(workerCtx)
		}()
	}

	cleanup := idempotencysvc.NewCleanupWorker(
		deps.Idempotency,
		idempotencysvc.WithLogger(logger.WithField("component", "idempotency-cleanup-worker")),
		idempotencysvc.WithInterval(cfg.IdempotencyCleanupInterval),
	)
	workers.Add(1)
	go func() {
		defer workers.Done()
		cleanup.Run(workerCtx)
	}()

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		store := deps.Store
		healthHandler.RegisterChecker("postgres", healthcheck.CheckFunc("postgres", func() error {
			return store.Ping(context.Background())
		}))
	}

	apiHandler := transporthttp.NewRouter(orderService, transporthttp.RouterOptions{
		Idempotency:    deps.Idempotency,
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         logger.WithField("component", "http"),
	})

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: apiHandler}
	opsSrv := startOpsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		stopWorkers()
		workers.Wait()
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		stopWorkers()
		workers.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer запускает служебный HTTP-сервер: метрики и health checks.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
