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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/gwent-backend/config"
	"github.com/bellapacxx/gwent-backend/routes"
	"github.com/bellapacxx/gwent-backend/services"
	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(ctx context.Context, cfg *config.Config, co *services.Coordinator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(ctx, r, co)
	return r
}

func main() {
	// Env variables and the optional port argument
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogEncoding); err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Errorf("[FATAL] %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Infof("Shutting down")
	logger.Sync()
}

// run serves until ctx is cancelled. Any listener failure is returned.
func run(ctx context.Context, cfg *config.Config) error {
	catalog, err := services.LoadCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading card catalog: %w", err)
	}

	co := services.NewCoordinator(catalog,
		services.WithRateLimit(cfg.ActionRatePerSec, cfg.ActionBurst),
		services.WithSendBuffer(cfg.SendBuffer),
	)

	tcp, err := services.ListenTCP(cfg.ListenAddr(), co)
	if err != nil {
		return err
	}

	if cfg.HTTPEnabled {
		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: setupRouter(ctx, cfg, co)}
		go func() {
			logger.Infof("[HTTP] Listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("[HTTP] %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnf("[HTTP] shutdown: %v", err)
			}
		}()
	}

	logger.Infof("Gwent session server starting on port %d", cfg.Port)
	if err := tcp.Serve(ctx); err != nil {
		return fmt.Errorf("[TCP] %w", err)
	}
	return nil
}
