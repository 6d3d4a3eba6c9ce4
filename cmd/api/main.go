package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/adapter/chromedp_crawler"
	"github.com/popguide/ingest-service/internal/adapter/email"
	"github.com/popguide/ingest-service/internal/adapter/firecrawl"
	natsadapter "github.com/popguide/ingest-service/internal/adapter/nats"
	"github.com/popguide/ingest-service/internal/adapter/postgres"
	redisadapter "github.com/popguide/ingest-service/internal/adapter/redis"
	"github.com/popguide/ingest-service/internal/delivery/http/handler"
	"github.com/popguide/ingest-service/internal/delivery/http/router"
	"github.com/popguide/ingest-service/internal/proxy"
	"github.com/popguide/ingest-service/internal/repository"
	"github.com/popguide/ingest-service/internal/usecase"
	"github.com/popguide/ingest-service/pkg/config"
	"github.com/popguide/ingest-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// PostgreSQL
	pgCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		log.Fatal("invalid postgres url", zap.Error(err))
	}
	if cfg.PostgresMaxConns > 0 {
		pgCfg.MaxConns = int32(cfg.PostgresMaxConns)
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		log.Fatal("unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); errors.Is(err, postgres.ErrNaturalKeyIndex) {
		log.Warn("natural key indexes missing, duplicate catalog rows are possible under concurrent runs", zap.Error(err))
	} else if err != nil {
		log.Fatal("unable to prepare database schema", zap.Error(err))
	}
	log.Info("postgres connection pool established")

	checks := map[string]handler.Pinger{"postgres": dbpool.Ping}

	// Redis is optional; without it runs are not serialised per category.
	var runLock repository.RunLockRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.Error(err))
		}
		runLock = redisadapter.NewRunLockRepo(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("redis connection established")
	}

	// NATS is optional; run events are only emailed without it.
	var publisher repository.EventPublisher
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("ingest-service"))
		if err != nil {
			log.Fatal("unable to connect to nats", zap.Error(err))
		}
		defer nc.Drain()
		publisher = natsadapter.NewEventPublisher(nc, cfg.NATSSubject)
		log.Info("nats connection established", zap.String("subject", cfg.NATSSubject))
	}

	var sender repository.EmailSender = email.NewLogSender(log)
	if cfg.EmailEndpoint != "" {
		sender = email.NewHTTPSender(cfg.EmailEndpoint, cfg.EmailAPIKey)
	}

	var extractor repository.ListingExtractor
	switch cfg.Extractor {
	case config.ExtractorBrowser:
		extractor = chromedp_crawler.NewBrowserExtractor(proxy.NewManager(cfg.Proxies()), cfg.PageLoadTimeout, log)
	case config.ExtractorFirecrawl:
		extractor = firecrawl.NewExtractor(cfg.FirecrawlBaseURL, cfg.FirecrawlAPIKey, cfg.FirecrawlRPS, cfg.ExtractTimeout, log)
	default:
		log.Fatal("unknown extractor", zap.String("extractor", cfg.Extractor))
	}
	log.Info("listing extractor selected", zap.String("extractor", extractor.Name()))

	runner := usecase.NewIngestUseCase(
		cfg,
		postgres.NewSourceRepo(dbpool),
		runLock,
		usecase.NewListingFetcher(extractor, cfg.MarketplaceBaseURL, cfg.TermDelay, log),
		usecase.NewCatalogDeduplicator(postgres.NewCatalogRepo(dbpool)),
		usecase.NewPriceRecorder(postgres.NewPriceRepo(dbpool)),
		usecase.NewNotificationDispatcher(sender, publisher, cfg.AdminEmail, cfg.DashboardURL, log),
		log,
	)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router.New(handler.NewHandler(runner, checks, log), log),
		ReadTimeout: 10 * time.Second,
		// A scrape request stays open for the whole run.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
