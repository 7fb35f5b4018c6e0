// Package main starts the RentVerify HTTP server: configuration, logging,
// storage backend, services, handlers and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/config"
	"github.com/atinyakov/RentVerify/internal/db"
	"github.com/atinyakov/RentVerify/internal/logger"
	"github.com/atinyakov/RentVerify/internal/middleware"
	"github.com/atinyakov/RentVerify/internal/repository"
	"github.com/atinyakov/RentVerify/internal/server/handler/http"
	"github.com/atinyakov/RentVerify/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// .env values fill in variables that are not already set.
	_ = godotenv.Load(".env")

	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	latency := repository.Latency{Read: options.ReadLatency, Write: options.WriteLatency}
	catalog := repository.NewListingCatalog(latency, repository.DefaultListings()...)

	var (
		userRepo    service.UserRepository
		requestRepo service.RequestRepository
	)
	if options.DatabaseDSN == "" {
		userRepo, requestRepo = openMemory(options, latency, zapLogger)
	} else {
		database, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer database.Close()

		db.StartSoftDeleteCleaner(ctx, database, options.CleanerInterval, options.CleanerRetention, zapLogger)
		userRepo, requestRepo = openPostgres(ctx, database, options, zapLogger)
	}

	authService := service.NewAuthService(userRepo, service.NewJWTService(options.JWTSecret), service.NewSessionStore())
	requestService := service.NewRequestService(requestRepo)
	handlers := http.Handlers{
		Auth:     &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Listings: &http.ListingHandler{ListingService: service.NewListingService(catalog), Log: zapLogger},
		Profile:  &http.ProfileHandler{ProfileService: service.NewProfileService(userRepo), Log: zapLogger},
		Requests: &http.RequestHandler{RequestService: requestService, Log: zapLogger},
		Intake:   &http.IntakeHandler{IntakeService: service.NewIntakeService(requestService, catalog, zapLogger), Log: zapLogger},
	}

	limiter := middleware.NewRateLimiter(10*time.Minute, 20)
	limiter.StartCleanup(ctx, time.Hour)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           http.NewRouter(handlers, authService, limiter, zapLogger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}
}

func openMemory(options *config.Options, latency repository.Latency, log *zap.Logger) (service.UserRepository, service.RequestRepository) {
	if !options.Seed {
		return repository.NewMemoryUserRepository(latency), repository.NewMemoryRequestRepository(latency)
	}
	users, err := repository.SeedUsers()
	if err != nil {
		log.Fatal("cannot seed users", zap.Error(err))
	}
	log.Info("using in-memory backend with demo data", zap.Int("users", len(users)))
	return repository.NewMemoryUserRepository(latency, users...),
		repository.NewMemoryRequestRepository(latency, repository.SeedRequests()...)
}

func openPostgres(ctx context.Context, database *sql.DB, options *config.Options, log *zap.Logger) (service.UserRepository, service.RequestRepository) {
	users := repository.NewPostgresUserRepository(database)
	requests := repository.NewPostgresRequestRepository(database)
	if !options.Seed {
		return users, requests
	}

	seedUsers, err := repository.SeedUsers()
	if err != nil {
		log.Fatal("cannot seed users", zap.Error(err))
	}
	for i := range seedUsers {
		if err := users.CreateUser(ctx, &seedUsers[i]); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			log.Fatal("cannot seed users", zap.Error(err))
		}
	}
	for _, req := range repository.SeedRequests() {
		if _, err := requests.Create(ctx, req); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			log.Fatal("cannot seed requests", zap.Error(err))
		}
	}
	return users, requests
}
