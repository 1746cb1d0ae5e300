//	@title			Upload API
//	@version		1.0
//	@description	Stores single-file uploads in object storage under unique, sortable keys.
//
//	@host		localhost:8080
//	@BasePath	/

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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imgdrop/service/internal/config"
	"github.com/imgdrop/service/internal/db"
	"github.com/imgdrop/service/internal/ledger"
	"github.com/imgdrop/service/internal/logging"
	"github.com/imgdrop/service/internal/metrics"
	"github.com/imgdrop/service/internal/storage"
	"github.com/imgdrop/service/internal/upload"

	_ "github.com/imgdrop/service/docs/swagger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing endpoint is a deployment fault reported per request, not at startup.
	var store storage.ObjectStore
	if cfg.StorageConfigured() {
		s, err := storage.NewMinioStorage(storage.MinioOptions{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Region:     cfg.StorageRegion,
			UseSSL:     cfg.StorageUseSSL,
			PublicBase: cfg.StoragePublicBase,
			PartSize:   uint64(cfg.StoragePartSizeMB) << 20,
		})
		if err != nil {
			return fmt.Errorf("object storage init failed: %w", err)
		}
		store = s
	} else {
		logger.Warn("STORAGE_ENDPOINT is not set; uploads will fail until it is configured")
	}

	observer, err := metrics.NewUploadObserver("uploads", prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	opts := []upload.Option{
		upload.WithLogger(logger),
		upload.WithObserver(observer),
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		opts = append(opts, upload.WithRecorder(ledger.NewRepository(pool)))
	}

	// Wire dependencies: store → service → handler
	svc := upload.NewService(upload.StoreConfig{
		AccountEndpoint: cfg.StorageEndpoint,
		ContainerName:   cfg.ContainerName,
		PublicRead:      cfg.StoragePublicRead,
	}, store, opts...)
	uploadHandler := upload.NewHandler(svc, logger)

	// Uploads are unbounded in size, so only header and idle timeouts apply.
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: newRouter(routerDeps{
			uploads:     uploadHandler,
			logger:      logger,
			metrics:     promhttp.Handler(),
			corsOrigins: cfg.CORSAllowedOrigins,
			staticDir:   cfg.StaticDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv, "container", cfg.ContainerName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
