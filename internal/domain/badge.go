package domain

import "time"

// Badge - a free-form named badge attached to a user profile. Badges carry no
// XP; they exist purely for display.
type Badge struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
