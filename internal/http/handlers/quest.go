package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/progression"
	"github.com/sudosnarky/lifequest-app/internal/repository"
	"github.com/sudosnarky/lifequest-app/internal/service"

	"github.com/gin-gonic/gin"
)

func questID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return 0, false
	}
	return id, true
}

// GetQuests lists the user's quests with optional type/category/completed
// filters.
func (h *Handler) GetQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var f repository.QuestFilter
	if v := c.Query("type"); v != "" {
		t, ok := domain.ParseQuestType(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest type"})
			return
		}
		f.Type = &t
	}
	if v := c.Query("category"); v != "" {
		cat, ok := domain.ParseCategory(v)
		if !ok {
			abortWithError(c, service.ErrInvalidCategory)
			return
		}
		f.Category = &cat
	}
	if v := c.Query("completed"); v != "" {
		completed := v == "true"
		f.Completed = &completed
	}

	quests, err := h.QuestService.List(c.Request.Context(), userID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get quests"})
		return
	}
	if quests == nil {
		quests = []*domain.Quest{}
	}

	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

func (h *Handler) GetQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := questID(c)
	if !ok {
		return
	}

	quest, err := h.QuestService.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quest": quest})
}

type CreateQuestRequest struct {
	Title       string     `json:"title" binding:"required,max=120"`
	Description string     `json:"description"`
	Category    string     `json:"category" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	Difficulty  string     `json:"difficulty" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *Handler) CreateQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreateQuestRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	category, ok := domain.ParseCategory(req.Category)
	if !ok {
		abortWithError(c, service.ErrInvalidCategory)
		return
	}
	questType, ok := domain.ParseQuestType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest type"})
		return
	}

	quest, err := h.QuestService.Create(c.Request.Context(), userID, service.CreateQuestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Type:        questType,
		Difficulty:  domain.ParseDifficulty(req.Difficulty),
		DueDate:     req.DueDate,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quest": quest})
}

type UpdateQuestRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Difficulty  *string    `json:"difficulty"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *Handler) UpdateQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := questID(c)
	if !ok {
		return
	}

	var req UpdateQuestRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	in := service.UpdateQuestInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Category != nil {
		cat, ok := domain.ParseCategory(*req.Category)
		if !ok {
			abortWithError(c, service.ErrInvalidCategory)
			return
		}
		in.Category = &cat
	}
	if req.Difficulty != nil {
		d := domain.ParseDifficulty(*req.Difficulty)
		in.Difficulty = &d
	}

	quest, err := h.QuestService.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quest": quest})
}

func (h *Handler) DeleteQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := questID(c)
	if !ok {
		return
	}

	if err := h.QuestService.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "quest deleted"})
}

// CompleteQuest transitions a quest to Completed and reports the XP outcome
// for the client's celebration UI.
func (h *Handler) CompleteQuest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := questID(c)
	if !ok {
		return
	}

	res, err := h.QuestService.Complete(c.Request.Context(), userID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.publishGrant(userID, progression.GrantResult{
		NewTotalXP: res.NewTotalXP,
		NewLevel:   res.NewLevel,
		LeveledUp:  res.LeveledUp,
	}, res.XPGained)

	c.JSON(http.StatusOK, gin.H{
		"quest":      res.Quest,
		"xp_gained":  res.XPGained,
		"category":   res.Category,
		"leveled_up": res.LeveledUp,
		"new_level":  res.NewLevel,
	})
}

func (h *Handler) ResetDailyQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.QuestService.ResetDaily(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset daily quests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "daily quests reset"})
}

func (h *Handler) ResetWeeklyQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.QuestService.ResetWeekly(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset weekly quests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "weekly quests reset"})
}
