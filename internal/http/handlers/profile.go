package handlers

import (
	"net/http"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/progression"

	"github.com/gin-gonic/gin"
)

// Me returns the full profile with badges and unlocked achievements.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	badges, err := h.BadgeRepo.ListByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load badges"})
		return
	}

	achievements, err := h.AchievementRepo.ListUnlocked(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"badges":       badges,
		"achievements": achievements,
	})
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	AvatarURI   *string `json:"avatar_uri"`
	AvatarColor *string `json:"avatar_color"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.UserRepo.UpdateProfile(c.Request.Context(), userID, req.Name, req.AvatarURI, req.AvatarColor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateAvatarRequest struct {
	AvatarURI   *string `json:"avatar_uri"`
	AvatarColor *string `json:"avatar_color"`
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req UpdateAvatarRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.UserRepo.UpdateProfile(c.Request.Context(), userID, nil, req.AvatarURI, req.AvatarColor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "avatar updated",
		"avatar_uri":   user.AvatarURI,
		"avatar_color": user.AvatarColor,
	})
}

// Stats returns level/XP totals plus the per-category breakdown.
func (h *Handler) Stats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"level":      user.Level,
			"current_xp": user.CurrentXP,
			"total_xp":   user.TotalXP,
			// XPThreshold(level) is one level ahead of the bound on current_xp
			// (XPThreshold(level-1)). Longstanding client contract; keep as is.
			"xp_to_next_level": progression.XPThreshold(user.Level),
			"category_xp":      user.CategoryXP(),
		},
	})
}

type AddBadgeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddBadge(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req AddBadgeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "badge name is required"})
		return
	}

	badge := &domain.Badge{UserID: userID, Name: req.Name}
	if err := h.BadgeRepo.Create(c.Request.Context(), badge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create badge"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"badge": badge})
}
