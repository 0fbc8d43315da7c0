package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"charterline/internal/audit"
	"charterline/internal/audit/kafka"
	complianceHandler "charterline/internal/compliance/handler"
	complianceMetrics "charterline/internal/compliance/metrics"
	"charterline/internal/platform/config"
	"charterline/internal/platform/httpserver"
	"charterline/internal/platform/logger"
	platformMetrics "charterline/internal/platform/metrics"
	"charterline/internal/recommendation"
	recommendationHandler "charterline/internal/recommendation/handler"
	verificationHandler "charterline/internal/verification/handler"
	verificationMetrics "charterline/internal/verification/metrics"
	"charterline/internal/verification/service"
	"charterline/pkg/platform/middleware/requesttime"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CHARTERLINE_CONFIG"))
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closer, err := buildStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("storage close failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	publishers := audit.Fanout{audit.NewLogPublisher(log)}
	var (
		queue  *audit.QueuePublisher
		worker *audit.Worker
	)
	if cfg.Kafka.Enabled() {
		producer, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, kafka.WithLogger(log))
		if err != nil {
			return fmt.Errorf("kafka audit publisher: %w", err)
		}
		defer producer.Close()
		queue = audit.NewQueuePublisher(cfg.Kafka.QueueLength)
		sink := audit.NewBreakerPublisher(producer, cfg.Kafka.BreakerThreshold, cfg.Kafka.BreakerCooldown)
		worker = audit.NewWorker(sink, queue.Inbox(), log)
		publishers = append(publishers, queue)
	}

	svc, err := service.New(stores,
		service.WithLogger(log),
		service.WithMetrics(verificationMetrics.New(reg)),
		service.WithAuditPublisher(publishers),
	)
	if err != nil {
		return err
	}
	engine := recommendation.New(recommendation.WithSupportedJurisdictions(cfg.Jurisdictions...))

	httpMetrics := platformMetrics.New(reg)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Route("/v1", func(r chi.Router) {
		complianceHandler.New(log, complianceMetrics.New(reg)).Register(r)
		recommendationHandler.New(engine, log).Register(r)
		verificationHandler.New(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r)
	log.Info("starting charterline", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver, "kafka", cfg.Kafka.Enabled())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
		if queue != nil {
			// handlers have returned; let the worker drain what is left
			queue.Close()
		}
		return err
	})
	if worker != nil {
		g.Go(func() error {
			return worker.Run(context.WithoutCancel(gctx))
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("charterline stopped")
	return nil
}
