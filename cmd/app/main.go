package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/config"
	"github.com/sudosnarky/lifequest-app/internal/db"
	httpServer "github.com/sudosnarky/lifequest-app/internal/http"
	"github.com/sudosnarky/lifequest-app/internal/http/middleware"
	"github.com/sudosnarky/lifequest-app/internal/logger"
	"github.com/sudosnarky/lifequest-app/internal/service"
	"github.com/sudosnarky/lifequest-app/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL, int32(cfg.DBMaxConns))
	defer dbPool.Close()

	r := gin.Default()

	// CORS for the mobile app and web builds
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	r.Use(middleware.Metrics())

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := ws.NewHub()
	httpServer.RegisterRoutes(r, dbPool, hub, cfg, version)

	// Midnight reset sweeps. Disabled by default so deployments that reset
	// from the client (or an external scheduler) don't double-reset.
	if cfg.ResetCronEnabled {
		questSvc := service.NewQuestService(dbPool)
		sched := cron.New()
		if _, err := sched.AddFunc("0 0 * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := questSvc.ResetDailyAll(ctx); err != nil {
				logger.Error("daily reset sweep failed", "error", err)
			}
		}); err != nil {
			logger.Fatal("failed to schedule daily reset", "error", err)
		}
		if _, err := sched.AddFunc("0 0 * * 1", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := questSvc.ResetWeeklyAll(ctx); err != nil {
				logger.Error("weekly reset sweep failed", "error", err)
			}
		}); err != nil {
			logger.Fatal("failed to schedule weekly reset", "error", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
