package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	AvatarURI    *string   `db:"avatar_uri" json:"avatar_uri,omitempty"`
	AvatarColor  string    `db:"avatar_color" json:"avatar_color"`
	Level        int       `db:"level" json:"level"`
	CurrentXP    int64     `db:"current_xp" json:"current_xp"`
	TotalXP      int64     `db:"total_xp" json:"total_xp"`

	AcademicsXP   int64 `db:"academics_xp" json:"academics_xp"`
	FitnessXP     int64 `db:"fitness_xp" json:"fitness_xp"`
	CreativityXP  int64 `db:"creativity_xp" json:"creativity_xp"`
	ExplorationXP int64 `db:"exploration_xp" json:"exploration_xp"`
	WellnessXP    int64 `db:"wellness_xp" json:"wellness_xp"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CategoryXP returns per-category totals keyed by canonical category name.
func (u *User) CategoryXP() map[Category]int64 {
	return map[Category]int64{
		CategoryAcademics:   u.AcademicsXP,
		CategoryFitness:     u.FitnessXP,
		CategoryCreativity:  u.CreativityXP,
		CategoryExploration: u.ExplorationXP,
		CategoryWellness:    u.WellnessXP,
	}
}
