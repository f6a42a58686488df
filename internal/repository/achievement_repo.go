package repository

import (
	"context"
	"errors"

	"github.com/sudosnarky/lifequest-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAchievementNotFound = errors.New("achievement not found")

type AchievementRepository struct {
	db *pgxpool.Pool
}

func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) GetByID(ctx context.Context, id int64) (*domain.Achievement, error) {
	var a domain.Achievement
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, category, requirement, xp_reward, created_at
		 FROM achievements WHERE id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.Requirement, &a.XPReward, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListWithStatus returns all achievements (optionally filtered by category)
// together with the user's unlock state, oldest first.
func (r *AchievementRepository) ListWithStatus(ctx context.Context, userID int64, category *string) ([]domain.AchievementWithStatus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.title, a.description, a.category, a.requirement, a.xp_reward, a.created_at,
		        ua.unlocked_at
		 FROM achievements a
		 LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
		 WHERE ($2::text IS NULL OR a.category = $2)
		 ORDER BY a.created_at, a.id`,
		userID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.AchievementWithStatus
	for rows.Next() {
		var a domain.AchievementWithStatus
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.Requirement,
			&a.XPReward, &a.CreatedAt, &a.UnlockedAt); err != nil {
			return nil, err
		}
		a.Unlocked = a.UnlockedAt != nil
		res = append(res, a)
	}
	return res, rows.Err()
}

// ListUnlocked returns the user's unlocked achievements, newest unlock first.
func (r *AchievementRepository) ListUnlocked(ctx context.Context, userID int64) ([]domain.AchievementWithStatus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.title, a.description, a.category, a.requirement, a.xp_reward, a.created_at,
		        ua.unlocked_at
		 FROM user_achievements ua
		 JOIN achievements a ON a.id = ua.achievement_id
		 WHERE ua.user_id = $1
		 ORDER BY ua.unlocked_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.AchievementWithStatus
	for rows.Next() {
		var a domain.AchievementWithStatus
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.Requirement,
			&a.XPReward, &a.CreatedAt, &a.UnlockedAt); err != nil {
			return nil, err
		}
		a.Unlocked = true
		res = append(res, a)
	}
	return res, rows.Err()
}
