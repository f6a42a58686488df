package domain

import (
	"strings"
	"time"
)

// Category - one of the five fixed life domains
type Category string

const (
	CategoryAcademics   Category = "academics"
	CategoryFitness     Category = "fitness"
	CategoryCreativity  Category = "creativity"
	CategoryExploration Category = "exploration"
	CategoryWellness    Category = "wellness"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryAcademics,
		CategoryFitness,
		CategoryCreativity,
		CategoryExploration,
		CategoryWellness,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAcademics, CategoryFitness, CategoryCreativity, CategoryExploration, CategoryWellness:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes a case-insensitive category string.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.IsValid()
}

// Difficulty - quest difficulty, mapped to a fixed XP reward at creation time
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyEpic   Difficulty = "epic"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyEpic:
		return true
	default:
		return false
	}
}

// ParseDifficulty normalizes a case-insensitive difficulty string. Unknown
// values are passed through lowercased; the reward lookup falls back to the
// easy reward for them rather than failing.
func ParseDifficulty(s string) Difficulty {
	return Difficulty(strings.ToLower(strings.TrimSpace(s)))
}

// QuestType - reset cadence of a quest, fixed at creation
type QuestType string

const (
	QuestTypeDaily  QuestType = "daily"
	QuestTypeWeekly QuestType = "weekly"
)

func (t QuestType) IsValid() bool {
	return t == QuestTypeDaily || t == QuestTypeWeekly
}

// ParseQuestType normalizes a case-insensitive quest type string.
func ParseQuestType(s string) (QuestType, bool) {
	t := QuestType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Quest - a user-owned task. XPReward is frozen from difficulty when the
// quest is created or its difficulty edited; completion always pays the
// stored value.
type Quest struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Category    Category   `db:"category" json:"category"`
	Type        QuestType  `db:"quest_type" json:"type"`
	Difficulty  Difficulty `db:"difficulty" json:"difficulty"`
	XPReward    int64      `db:"xp_reward" json:"xp_reward"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Streak      int        `db:"streak" json:"streak"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
