package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/progression"

	"github.com/gin-gonic/gin"
)

// GetAchievements returns all achievements with the user's unlock status.
func (h *Handler) GetAchievements(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var category *string
	if v := c.Query("category"); v != "" {
		normalized := strings.ToLower(strings.TrimSpace(v))
		category = &normalized
	}

	achievements, err := h.AchievementService.List(c.Request.Context(), userID, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get achievements"})
		return
	}
	if achievements == nil {
		achievements = []domain.AchievementWithStatus{}
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// GetMyAchievements returns the user's unlocked achievements, newest first.
func (h *Handler) GetMyAchievements(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	achievements, err := h.AchievementService.ListUnlocked(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get achievements"})
		return
	}
	if achievements == nil {
		achievements = []domain.AchievementWithStatus{}
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// UnlockAchievement records a one-time unlock and grants its XP (with no
// category; achievement XP never touches category totals).
func (h *Handler) UnlockAchievement(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}

	res, err := h.AchievementService.Unlock(c.Request.Context(), userID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if res.XPGained > 0 {
		h.publishGrant(userID, progression.GrantResult{
			NewTotalXP: res.NewTotalXP,
			NewLevel:   res.NewLevel,
			LeveledUp:  res.LeveledUp,
		}, res.XPGained)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "achievement unlocked",
		"achievement": res.Achievement,
		"unlocked_at": res.UnlockedAt,
		"xp_gained":   res.XPGained,
		"leveled_up":  res.LeveledUp,
	})
}
