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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/malazinvestment/backend/config"
	"github.com/malazinvestment/backend/handler"
	"github.com/malazinvestment/backend/middleware"
	"github.com/malazinvestment/backend/pkg/logger"
	"github.com/malazinvestment/backend/service"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	slog.Info("configuration loaded successfully",
		"store", cfg.Store.Driver,
		"storage", cfg.Storage.Driver,
	)

	companies, users, client, err := openStores(cfg)
	if err != nil {
		slog.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}

	files, err := openFileStore(cfg)
	if err != nil {
		slog.Error("failed to initialize file storage", "error", err)
		os.Exit(1)
	}
	if err := files.Ensure(context.Background()); err != nil {
		slog.Error("failed to prepare file storage", "error", err)
		os.Exit(1)
	}

	uploads := service.NewUploadService(files, cfg.Storage.BaseURL, cfg.Storage.AllowedTypes)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Deps{
		Config:    cfg,
		Companies: companies,
		Users:     users,
		Files:     files,
		Uploads:   uploads,
		Metrics:   middleware.NewMetrics(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			slog.Error("failed to disconnect from mongo", "error", err)
		}
	}

	slog.Info("server exited gracefully")
}

// openStores returns the repositories for the configured driver. The mongo
// client is nil for the in-memory driver.
func openStores(cfg *config.Config) (service.CompanyRepository, service.UserRepository, *mongo.Client, error) {
	if cfg.Store.Driver == config.DriverMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return service.NewMemoryCompanyStore(), service.NewMemoryUserStore(), nil, nil
	}

	client, err := service.ConnectMongo(context.Background(), &cfg.Mongo)
	if err != nil {
		return nil, nil, nil, err
	}
	db := client.Database(cfg.Mongo.Database)
	return service.NewMongoCompanyStore(db), service.NewMongoUserStore(db), client, nil
}

func openFileStore(cfg *config.Config) (service.FileStore, error) {
	if cfg.Storage.Driver == config.StorageMinio {
		return service.NewMinioFileStore(&cfg.Minio)
	}
	return service.NewLocalFileStore(cfg.Storage.UploadDir), nil
}
