package handlers

import (
	"net/http"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/http/middleware"
	"github.com/sudosnarky/lifequest-app/internal/progression"
	"github.com/sudosnarky/lifequest-app/internal/service"
	"github.com/sudosnarky/lifequest-app/internal/ws"

	"github.com/gin-gonic/gin"
)

type GainXPRequest struct {
	Amount   *int64 `json:"amount" binding:"required"`
	Category string `json:"category"`
}

// GainXP applies a direct XP grant to the authenticated user. Amount zero is
// a valid no-op grant; negative amounts are rejected. The category is
// optional; when present it must be one of the five known categories.
func (h *Handler) GainXP(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req GainXPRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid xp amount"})
		return
	}

	var category *domain.Category
	if req.Category != "" {
		cat, ok := domain.ParseCategory(req.Category)
		if !ok {
			abortWithError(c, service.ErrInvalidCategory)
			return
		}
		category = &cat
	}

	grant, err := h.ProgressionService.Grant(c.Request.Context(), userID, *req.Amount, category)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.publishGrant(userID, grant.GrantResult, grant.XPGained)

	c.JSON(http.StatusOK, gin.H{
		"message":    "xp gained",
		"new_level":  grant.NewLevel,
		"leveled_up": grant.LeveledUp,
		"current_xp": grant.NewCurrentXP,
		"total_xp":   grant.NewTotalXP,
		"xp_gained":  grant.XPGained,
	})
}

// publishGrant pushes a progression event to the ws feed and bumps the
// level-up counter. Best effort; feed consumers are display-only.
func (h *Handler) publishGrant(userID int64, res progression.GrantResult, xpGained int64) {
	if res.LeveledUp {
		middleware.LevelUps.Inc()
	}
	if h.Hub == nil {
		return
	}

	eventType := "xp_gained"
	if res.LeveledUp {
		eventType = "level_up"
	}
	h.Hub.Broadcast(ws.Event{
		Type:     eventType,
		UserID:   userID,
		Level:    res.NewLevel,
		TotalXP:  res.NewTotalXP,
		XPGained: xpGained,
	})
}
