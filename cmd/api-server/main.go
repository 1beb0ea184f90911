package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rankcet/internal/cutoff"
	"rankcet/internal/middleware"
	"rankcet/internal/predict"
	"rankcet/internal/sourcesync"
	"rankcet/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()
	logger := utils.NewLogger(cfg.Debug)

	registry, err := cutoff.RegistryFromConfig(cfg)
	if err != nil {
		logger.Fatal("[startup] schema config: %v", err)
	}

	if cfg.S3.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		store, err := sourcesync.NewS3Store(ctx, cfg.S3)
		if err != nil {
			cancel()
			logger.Fatal("[startup] s3: %v", err)
		}
		res, err := sourcesync.Mirror(ctx, store, cfg.S3.Prefix, cfg.DataDir, logger)
		cancel()
		if err != nil {
			logger.Fatal("[startup] mirror s3://%s/%s: %v", cfg.S3.Bucket, cfg.S3.Prefix, err)
		}
		logger.Info("[startup] mirrored %d files (%d failed)", len(res.Downloaded), len(res.Failed))
	}

	// The table is loaded before the listener exists: a missing source
	// directory stops the process here and no request is ever accepted.
	table, err := cutoff.LoadDir(cfg.DataDir, cutoff.LoadOptions{Registry: registry, Logger: logger})
	if err != nil {
		logger.Fatal("[startup] load cutoffs: %v", err)
	}

	engine := predict.NewEngine(table)
	metrics := predict.NewMetrics()
	metrics.ObserveTable(table)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(logger), middleware.CORS(cfg.AllowedOrigins))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "data_dir": cfg.DataDir})
	})

	router.GET("/ready", func(c *gin.Context) {
		if table.Empty() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  "no cutoff data loaded",
				"rows":   0,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "rows": table.Len()})
	})

	router.GET("/debug", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"data_dir":    cfg.DataDir,
			"generations": registry.IDs(),
			"rows":        table.Len(),
			"columns":     table.Columns(),
			"sources":     table.Sources(),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler := predict.NewHandler(engine, metrics, logger)
	handler.RegisterRoutes(router.Group(""))

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[http] API server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("[http] shutdown signal received: %s", sig)
	case err := <-errCh:
		logger.Error("[http] server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[http] shutdown error: %v", err)
	}
	logger.Info("[http] server stopped")
}
