package handlers

import (
	"net/http"
	"strconv"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/repository"
	"github.com/sudosnarky/lifequest-app/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultLeaderboardLimit = 50

func leaderboardLimit(c *gin.Context) int {
	limit := defaultLeaderboardLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}

// GetLeaderboard returns the overall top users by lifetime XP.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	entries, err := h.UserRepo.GetTopByTotalXP(c.Request.Context(), leaderboardLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}
	if entries == nil {
		entries = []repository.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// GetCategoryLeaderboard returns the top users by XP in one category.
func (h *Handler) GetCategoryLeaderboard(c *gin.Context) {
	category, ok := domain.ParseCategory(c.Param("category"))
	if !ok {
		abortWithError(c, service.ErrInvalidCategory)
		return
	}

	entries, err := h.UserRepo.GetTopByCategory(c.Request.Context(), category, leaderboardLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}
	if entries == nil {
		entries = []repository.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "leaderboard": entries})
}

// GetMyRank returns the requester's overall and per-category ranks.
func (h *Handler) GetMyRank(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	overall, err := h.UserRepo.GetOverallRank(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	categories, err := h.UserRepo.GetCategoryRanks(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get category ranks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"overall":    overall,
		"categories": categories,
	})
}
