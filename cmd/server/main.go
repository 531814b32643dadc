// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/guanl20/Blocktrust/internal/config"
	"github.com/guanl20/Blocktrust/internal/database"
	"github.com/guanl20/Blocktrust/internal/events"
	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/metrics"
	"github.com/guanl20/Blocktrust/internal/repository"
	"github.com/guanl20/Blocktrust/internal/router"
	"github.com/guanl20/Blocktrust/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogging(cfg.Log, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, closeStore, err := openStore(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}
	defer closeStore()

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	policy, err := services.StatusPolicyByName(cfg.Ledger.StatusPolicy)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid status policy")
	}

	m := metrics.New()
	var publisher services.Publisher
	if cfg.Redis.Enabled {
		client, err := events.NewClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer client.Close()
		publisher = events.NewRedisPublisher(client, cfg.Redis.Stream, cfg.Redis.MaxLen, events.WithObserver(m.ObservePublish))
		logrus.WithField("stream", cfg.Redis.Stream).Info("Publishing transactions to Redis")
	}

	ledger := services.NewLedger(store, cfg, services.LedgerOptions{
		Policy:    policy,
		Publisher: publisher,
		Recorder:  m,
		Storage:   cfg.Database.Driver,
	})

	if err := ledger.Roles.Bootstrap(ctx, cfg.Ledger.AdminAccount, cfg.Ledger.AdminCompany, cfg.Ledger.AdminPassword); err != nil {
		logrus.WithError(err).Fatal("Failed to bootstrap admin")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(ctx, cfg, ledger, m)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":          cfg.Server.Port,
			"storage":       cfg.Database.Driver,
			"status_policy": policy.Name(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

func openStore(cfg config.DatabaseConfig) (repository.Store, func(), error) {
	if cfg.Driver == "memory" {
		logrus.Warn("Using in-memory storage; ledger state is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}

	return repository.NewGormStore(db), func() { database.Close(db) }, nil
}

func configureLogging(cfg config.LogConfig, environment string) {
	logrus.SetOutput(os.Stdout)

	format := cfg.Format
	if format == "" && environment == "production" {
		format = "json"
	}
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
