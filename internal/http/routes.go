package http

import (
	"time"

	"github.com/sudosnarky/lifequest-app/internal/config"
	"github.com/sudosnarky/lifequest-app/internal/http/handlers"
	"github.com/sudosnarky/lifequest-app/internal/http/middleware"
	"github.com/sudosnarky/lifequest-app/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authRateWindow := time.Duration(cfg.AuthRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, cfg.AuthRateLimit, authRateWindow)

	// Legacy /api routes for older mobile clients
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, cfg.AuthRateLimit, authRateWindow)

	// WebSocket progression feed
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration) {
	// Auth
	authRL := middleware.RedisRateLimit("auth", authRateLimit, authRateWindow)
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)

	// Profile
	me := api.Group("/users/me")
	me.Use(middleware.JWT())
	{
		me.GET("", h.Me)
		me.PUT("", h.UpdateProfile)
		me.POST("/avatar", h.UpdateAvatar)
		me.GET("/stats", h.Stats)
		me.POST("/xp", h.GainXP)
		me.POST("/badges", h.AddBadge)
	}

	// Quests
	quests := api.Group("/quests")
	quests.Use(middleware.JWT())
	{
		quests.GET("", h.GetQuests)
		quests.POST("", h.CreateQuest)
		quests.GET("/:id", h.GetQuest)
		quests.PUT("/:id", h.UpdateQuest)
		quests.DELETE("/:id", h.DeleteQuest)
		quests.POST("/:id/complete", h.CompleteQuest)
		quests.POST("/daily/reset", h.ResetDailyQuests)
		quests.POST("/weekly/reset", h.ResetWeeklyQuests)
	}

	// Achievements
	achievements := api.Group("/achievements")
	achievements.Use(middleware.JWT())
	{
		achievements.GET("", h.GetAchievements)
		achievements.GET("/me", h.GetMyAchievements)
		achievements.POST("/:id/unlock", h.UnlockAchievement)
	}

	// Leaderboard
	leaderboard := api.Group("/leaderboard")
	leaderboard.Use(middleware.JWT())
	{
		leaderboard.GET("", h.GetLeaderboard)
		leaderboard.GET("/category/:category", h.GetCategoryLeaderboard)
		leaderboard.GET("/me", h.GetMyRank)
	}
}
