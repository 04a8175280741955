package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"temporada/internal/catalog"
	"temporada/internal/domain/listings"
	"temporada/internal/infra/broker/kafka"
	"temporada/internal/infra/config"
	"temporada/internal/infra/db/postgres"
	ginserver "temporada/internal/infra/http/gin"
	"temporada/internal/infra/identity"
	"temporada/internal/infra/messaging"
	"temporada/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	mapper := catalog.Mapper{
		Identity: identity.Static{ID: cfg.ConciergeID},
		Region:   listings.Coordinates{Lat: cfg.RegionLat, Lng: cfg.RegionLng},
	}
	store := catalog.NewStore(
		postgres.NewListingSource(db),
		postgres.NewChangeFeed(cfg.PostgresDSN, logger),
		mapper,
		cfg.PageSize,
		logger,
	)
	if err := store.Start(ctx); err != nil {
		if errors.Is(err, catalog.ErrSubscribe) {
			// Without the change feed the store never reconciles.
			logger.Error("catalog start failed", "error", err)
			os.Exit(1)
		}
		// With the feed live, a failed initial fetch is repaired by the
		// next remote change notification.
		logger.Warn("catalog initial fetch failed", "error", err)
	}
	defer store.Close()

	var handoff messaging.Handoff = messaging.NopHandoff{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		handoff = messaging.KafkaHandoff{Producer: producer, Topic: cfg.HandoffTopic}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.PingContext(pingCtx)
		},
	}, ginserver.Handlers{
		Listing: ginserver.NewListingHandler(store, cfg.DetailCacheTTL),
		Quote:   &ginserver.QuoteHandler{Store: store, Handoff: handoff},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
