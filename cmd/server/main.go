package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/cache"
	"github.com/clipsave/tiktok-download-service-go/internal/config"
	"github.com/clipsave/tiktok-download-service-go/internal/db"
	"github.com/clipsave/tiktok-download-service-go/internal/handler"
	"github.com/clipsave/tiktok-download-service-go/internal/repository"
	"github.com/clipsave/tiktok-download-service-go/internal/service"
	"github.com/clipsave/tiktok-download-service-go/internal/service/tiktok"
	"github.com/clipsave/tiktok-download-service-go/internal/validation"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close(pool)

	logger.Log.Info("database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	if err := os.MkdirAll(cfg.Transcode.ScratchDir, 0o755); err != nil {
		logger.Log.Fatal("failed to create scratch directory",
			zap.Error(err),
			zap.String("dir", cfg.Transcode.ScratchDir),
		)
	}

	repo := repository.New(pool)
	validator := validation.New()
	artifacts := cache.New()

	tiktokClient := tiktok.NewClient(&cfg.Upstream)
	metadataService := service.NewMetadataService(tiktokClient, validator)
	pipeline := service.NewTranscodePipeline(artifacts, metadataService, service.NewCommandRunner(), cfg.Transcode)

	// Download event publishing is optional: without a configured broker the
	// history table is the only record.
	var publisher service.EventPublisher
	var publisherHealth handler.BrokerChecker
	if cfg.RabbitMQ.Host != "" {
		p, err := service.NewDownloadEventPublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("failed to initialize RabbitMQ publisher, download events will not be published",
				zap.Error(err),
			)
		} else {
			publisher = p
			publisherHealth = p
			defer func() { _ = p.Close() }()
			logger.Log.Info("download event publisher initialized")
		}
	}

	downloadService := service.NewDownloadService(pipeline, repo, publisher, validator)

	sweeper := service.NewRetentionSweeper(artifacts, cfg.Transcode.ScratchDir)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go sweeper.Run(sweepCtx, cfg.Retention.Interval, cfg.Retention.MaxAge)

	infoHandler := handler.NewInfoHandler(metadataService)
	downloadHandler := handler.NewDownloadHandler(downloadService)
	historyHandler := handler.NewHistoryHandler(repo)
	healthHandler := handler.NewHealthHandler(repo, publisherHealth)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api/v1")
	{
		api.POST("/info", infoHandler.HandleInfo)
		api.GET("/download", downloadHandler.HandleDownload)
		api.GET("/downloads/recent", historyHandler.HandleRecent)
	}

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Long write timeout: downloads stream large files.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("shutdown signal received", zap.String("signal", sig.String()))

		stopSweeper()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("server stopped gracefully")
	}
}

// requestLogger logs each HTTP request with zap.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("remote_addr", c.ClientIP()),
		)
	}
}
