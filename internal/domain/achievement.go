package domain

import "time"

// Achievement - a one-time unlockable reward. Category here is descriptive
// (it may be "general"); achievement XP is always granted without touching
// category XP.
type Achievement struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Requirement string    `db:"requirement" json:"requirement"`
	XPReward    int64     `db:"xp_reward" json:"xp_reward"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// UserAchievement - records a single unlock. At most one row per
// (user, achievement) pair, enforced by a unique constraint.
type UserAchievement struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	AchievementID int64     `db:"achievement_id" json:"achievement_id"`
	UnlockedAt    time.Time `db:"unlocked_at" json:"unlocked_at"`
}

// AchievementWithStatus - achievement plus the requesting user's unlock state.
type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}
