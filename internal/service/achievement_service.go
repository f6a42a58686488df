package service

import (
	"context"
	"errors"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AchievementService handles one-time achievement unlocks and their XP grant.
type AchievementService struct {
	db           *pgxpool.Pool
	achievements *repository.AchievementRepository
	progression  *ProgressionService
}

func NewAchievementService(db *pgxpool.Pool) *AchievementService {
	return &AchievementService{
		db:           db,
		achievements: repository.NewAchievementRepository(db),
		progression:  NewProgressionService(db),
	}
}

func (s *AchievementService) List(ctx context.Context, userID int64, category *string) ([]domain.AchievementWithStatus, error) {
	return s.achievements.ListWithStatus(ctx, userID, category)
}

func (s *AchievementService) ListUnlocked(ctx context.Context, userID int64) ([]domain.AchievementWithStatus, error) {
	return s.achievements.ListUnlocked(ctx, userID)
}

// UnlockResult reports a successful unlock. Achievement XP never touches
// category XP, so there is no category field here.
type UnlockResult struct {
	Achievement *domain.Achievement
	UnlockedAt  time.Time
	XPGained    int64
	LeveledUp   bool
	NewLevel    int
	NewTotalXP  int64
}

// Unlock records the (user, achievement) pair exactly once and grants the
// achievement's XP without a category. The unique constraint on
// user_achievements is the double-unlock guard: the insert either lands or
// reports ErrAlreadyUnlocked, and the XP grant commits in the same
// transaction as the unlock row.
func (s *AchievementService) Unlock(ctx context.Context, userID, achievementID int64) (*UnlockResult, error) {
	a, err := s.achievements.GetByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, repository.ErrAchievementNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var unlockedAt time.Time
	err = tx.QueryRow(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement_id) DO NOTHING
		 RETURNING unlocked_at`,
		userID, achievementID,
	).Scan(&unlockedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyUnlocked
		}
		return nil, err
	}

	res := &UnlockResult{Achievement: a, UnlockedAt: unlockedAt}

	if a.XPReward > 0 {
		grant, err := s.progression.GrantTx(ctx, tx, userID, a.XPReward, nil)
		if err != nil {
			return nil, err
		}
		res.XPGained = grant.XPGained
		res.LeveledUp = grant.LeveledUp
		res.NewLevel = grant.NewLevel
		res.NewTotalXP = grant.NewTotalXP
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
