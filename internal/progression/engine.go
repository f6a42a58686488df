// Package progression holds the XP/leveling arithmetic shared by every XP
// mutation path (quest completion, achievement unlock, direct grant). It is a
// pure leaf: no storage, no HTTP, integer math only.
package progression

import "github.com/sudosnarky/lifequest-app/internal/domain"

// XPThreshold returns the XP cost of completing the level above `level`:
// 100 * (level + 1). XPThreshold(0) == 100 is the cost of going 1 -> 2.
func XPThreshold(level int) int64 {
	if level < 0 {
		return 0
	}
	return 100 * int64(level+1)
}

// CumulativeThresholdBefore returns the total XP consumed by all levels below
// `level`, i.e. sum of XPThreshold(0..level-2). It is 0 for level 1.
func CumulativeThresholdBefore(level int) int64 {
	var sum int64
	for k := 0; k <= level-2; k++ {
		sum += XPThreshold(k)
	}
	return sum
}

// LevelForTotalXP returns the level implied by lifetime XP. Starting at level
// 1, a level is gained each time the next threshold fits into the remaining
// XP. Thresholds strictly increase, so this terminates for any finite input.
func LevelForTotalXP(totalXP int64) int {
	level := 1
	var consumed int64
	for consumed+XPThreshold(level-1) <= totalXP {
		consumed += XPThreshold(level - 1)
		level++
	}
	return level
}

// CurrentXPWithinLevel returns XP accrued inside the given level. The level
// must be the one implied by totalXP; callers recompute it via
// LevelForTotalXP rather than passing a stored (possibly stale) value.
func CurrentXPWithinLevel(totalXP int64, level int) int64 {
	return totalXP - CumulativeThresholdBefore(level)
}

// RewardForDifficulty maps difficulty to its fixed XP reward. Unknown
// difficulties fall back to the easy reward instead of failing.
func RewardForDifficulty(d domain.Difficulty) int64 {
	switch d {
	case domain.DifficultyEasy:
		return 10
	case domain.DifficultyMedium:
		return 20
	case domain.DifficultyHard:
		return 35
	case domain.DifficultyEpic:
		return 50
	default:
		return 10
	}
}

// GrantResult is the outcome of applying an XP grant to a user's totals.
type GrantResult struct {
	NewTotalXP   int64
	NewLevel     int
	NewCurrentXP int64
	LeveledUp    bool
}

// ApplyGrant computes the post-grant progression state from the stored
// lifetime XP. The previous level is derived from totalXP, never trusted from
// the caller, so a stale stored level cannot skew the leveledUp flag.
func ApplyGrant(totalXP, amount int64) GrantResult {
	oldLevel := LevelForTotalXP(totalXP)
	newTotal := totalXP + amount
	newLevel := LevelForTotalXP(newTotal)
	return GrantResult{
		NewTotalXP:   newTotal,
		NewLevel:     newLevel,
		NewCurrentXP: CurrentXPWithinLevel(newTotal, newLevel),
		LeveledUp:    newLevel > oldLevel,
	}
}
