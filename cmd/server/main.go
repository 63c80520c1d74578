package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"authscript/internal/analysis"
	analysishandler "authscript/internal/analysis/handler"
	analysismetrics "authscript/internal/analysis/metrics"
	"authscript/internal/analysis/store"
	"authscript/internal/audit"
	"authscript/internal/document"
	"authscript/internal/evidence"
	evidencemetrics "authscript/internal/evidence/metrics"
	"authscript/internal/oracle"
	"authscript/internal/platform/config"
	"authscript/internal/platform/httpserver"
	"authscript/internal/platform/logger"
	platformredis "authscript/internal/platform/redis"
	"authscript/internal/policy"
	"authscript/internal/token"
	httptransport "authscript/internal/transport/http"
	"authscript/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	registry := policy.NewRegistry()
	if err := policy.RegisterSeeds(registry); err != nil {
		log.Error("failed to register seed policies", "error", err)
		os.Exit(1)
	}
	log.Info("policy registry ready", "procedure_codes", len(registry.RegisteredCodes()))

	reasoner := oracle.NewOpenAIOracle(oracle.OpenAIConfig{
		APIKey:  cfg.Oracle.APIKey,
		BaseURL: cfg.Oracle.BaseURL,
		Model:   cfg.Oracle.Model,
		Timeout: cfg.Oracle.Timeout,
	}, log)

	// One process-wide limiter bounds oracle calls across all requests.
	limiter := evidence.NewLimiter(cfg.Oracle.MaxConcurrent)
	evaluator := evidence.New(reasoner, limiter, log,
		evidence.WithMetrics(evidencemetrics.New()),
	)

	opts := []analysis.Option{
		analysis.WithMetrics(analysismetrics.New()),
		analysis.WithCacheTTL(cfg.ResultCacheTTL),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, analysis.WithCache(store.NewRedisStore(redisClient.Client)))
		log.Info("result cache: redis")
	} else {
		opts = append(opts, analysis.WithCache(store.NewInMemoryStore()))
		log.Info("result cache: in-memory")
	}

	auditor := audit.NewService(log)
	var sinks []audit.Store
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		sinks = append(sinks, audit.NewPostgres(db))
		log.Info("audit sink: postgres")
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to create kafka publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
		log.Info("audit sink: kafka", "topic", cfg.Kafka.Topic)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, audit.NewInMemoryStore())
		log.Info("audit sink: in-memory")
	}
	opts = append(opts, analysis.WithAuditor(auditor))

	service := analysis.NewService(
		registry,
		evaluator,
		reasoner,
		document.NewExtractor(log),
		log,
		opts...,
	)
	handler := analysishandler.New(service, log)

	var authMiddleware func(http.Handler) http.Handler
	if cfg.AuthDisabled {
		log.Warn("authentication disabled")
	} else {
		tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
		authMiddleware = auth.RequireAuth(tokens, log)
	}

	router := httptransport.NewRouter(handler, authMiddleware)
	srv := httpserver.New(cfg.Addr, router)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := audit.NewWorker(auditor.Inbox(), log, sinks...)
	go func() {
		if err := worker.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	log.Info("starting authscript", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
