package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/sweetly/sweetly-server/internal/config"
	"github.com/sweetly/sweetly-server/internal/db"
	"github.com/sweetly/sweetly-server/internal/events"
	"github.com/sweetly/sweetly-server/internal/httpserver"
	"github.com/sweetly/sweetly-server/internal/logging"
	"github.com/sweetly/sweetly-server/internal/middleware"
	"github.com/sweetly/sweetly-server/internal/repo"
	"github.com/sweetly/sweetly-server/internal/search"
	"github.com/sweetly/sweetly-server/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	db.SeedAdmin(ctx, gdb, cfg.AdminUsername, cfg.AdminPassword, logger)

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()
	if producer == nil {
		logger.Warn("KAFKA_BROKERS unset, event publishing disabled")
	}

	var idx *search.Index
	if cfg.ESURL != "" {
		client, err := search.NewClient(&cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, full-text search disabled", "error", err)
		} else {
			idx = &search.Index{ES: client, Name: cfg.ESIndex}
			logger.Info("elasticsearch connected", "index", cfg.ESIndex)
		}
	}

	r := &repo.GormRepo{DB: gdb}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:          r,
				JWTSecret:     cfg.JWTSecret,
				RefreshSecret: cfg.RefreshSecret,
				AccessTTL:     cfg.AccessTTL,
			},
			Producer: producer,
		},
		Sweet: &httpserver.SweetHTTP{
			Svc:      &service.CatalogService{Repo: r},
			Producer: producer,
			Search:   idx,
		},
		Order: &httpserver.OrderHTTP{
			Svc:      &service.OrderService{Repo: r},
			Producer: producer,
		},
		AuthMW: middleware.NewAuthMiddleware(cfg.JWTSecret),
		Logger: logger,
	})

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	logger.Info("server starting", "addr", addr, "service", cfg.ServiceName)
	e.Logger.Fatal(e.Start(addr))
}
