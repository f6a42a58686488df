package handlers

import (
	"errors"
	"net/http"

	"github.com/sudosnarky/lifequest-app/internal/repository"
	"github.com/sudosnarky/lifequest-app/internal/service"
	"github.com/sudosnarky/lifequest-app/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB *pgxpool.Pool

	UserRepo        *repository.UserRepository
	QuestRepo       *repository.QuestRepository
	AchievementRepo *repository.AchievementRepository
	BadgeRepo       *repository.BadgeRepository

	ProgressionService *service.ProgressionService
	QuestService       *service.QuestService
	AchievementService *service.AchievementService

	Hub *ws.Hub
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub) *Handler {
	return &Handler{
		DB:                 db,
		UserRepo:           repository.NewUserRepository(db),
		QuestRepo:          repository.NewQuestRepository(db),
		AchievementRepo:    repository.NewAchievementRepository(db),
		BadgeRepo:          repository.NewBadgeRepository(db),
		ProgressionService: service.NewProgressionService(db),
		QuestService:       service.NewQuestService(db),
		AchievementService: service.NewAchievementService(db),
		Hub:                hub,
	}
}

// getUserID extracts the authenticated user id placed by middleware.JWT.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// errStatus maps service errors to HTTP status codes. Anything outside the
// known taxonomy is a 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrAlreadyUnlocked),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := errStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
