// Package main is the entry point for the hotel and fleet API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/mickael234/projet-psah-sub003/internal/auth"
	"github.com/mickael234/projet-psah-sub003/internal/config"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/handler"
	"github.com/mickael234/projet-psah-sub003/internal/identity"
	"github.com/mickael234/projet-psah-sub003/internal/middleware"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
	"github.com/mickael234/projet-psah-sub003/internal/service"
	"github.com/mickael234/projet-psah-sub003/internal/storage"
	"github.com/mickael234/projet-psah-sub003/migrations"
)

// redisChannelPrefix namespaces the pub/sub channels events are published on.
const redisChannelPrefix = "hotel"

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Events -----------------------------------------------------------
	publisher, closeEvents, err := newPublisher(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect event backend", "backend", cfg.EventsBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeEvents(); err != nil {
			slog.Warn("closing event backend", "error", err)
		}
	}()
	slog.Info("event backend ready", "backend", cfg.EventsBackend)

	// --- Storage ----------------------------------------------------------
	store, local, err := newStore(cfg)
	if err != nil {
		slog.Error("failed to set up storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	accounts := repo.NewAccountRepo(pool)
	requests := repo.NewRideRequestRepo(pool)
	reservations := repo.NewReservationRepo(pool)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	srv := handler.NewServer(handler.Deps{
		Auth:         service.NewAuthService(accounts, tokens),
		RideRequests: service.NewRideRequestService(requests, publisher),
		Rides:        service.NewRideService(repo.NewRideRepo(pool), requests, publisher),
		Documents:    service.NewDocumentService(repo.NewDocumentRepo(pool), store, publisher),
		Reservations: service.NewReservationService(reservations),
		Reviews:      service.NewReviewService(repo.NewReviewRepo(pool), reservations, publisher),
		Tickets:      service.NewTicketService(repo.NewTicketRepo(pool), publisher),
		Actors:       identity.NewResolver(accounts),
		DB:           pool,
		Logger:       logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → Timeout → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	if local != nil {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}
	r.Mount("/", srv.Routes(tokens))

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies the embedded schema over a short-lived database/sql
// connection, which is what goose drives.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", n)
	return nil
}

// newPublisher connects the configured event backend. The returned func
// releases its connection.
func newPublisher(ctx context.Context, cfg config.Config) (events.Publisher, func() error, error) {
	switch cfg.EventsBackend {
	case config.EventsRedis:
		client, err := events.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return events.NewRedis(client, redisChannelPrefix), client.Close, nil
	case config.EventsAMQP:
		return events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		return events.Nop{}, func() error { return nil }, nil
	}
}

// newStore builds the upload backend. local is non-nil when files are kept on
// disk and must be served by this process.
func newStore(cfg config.Config) (store storage.Store, local *storage.Local, err error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3, err := storage.NewS3(cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			return nil, nil, err
		}
		return s3, nil, nil
	default:
		local, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	}
}
