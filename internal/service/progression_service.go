package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/progression"
	"github.com/sudosnarky/lifequest-app/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("quest already completed")
	ErrAlreadyUnlocked  = errors.New("achievement already unlocked")
	ErrInvalidAmount    = errors.New("invalid xp amount")
	ErrInvalidCategory  = errors.New("invalid category")
)

// GrantResult is what a successful XP grant reports back to the caller.
type GrantResult struct {
	progression.GrantResult
	XPGained int64
	Category *domain.Category
}

// ProgressionService applies XP grants to a user's progression row. Every
// mutation path (quest completion, achievement unlock, direct grant) goes
// through GrantTx so the arithmetic cannot drift between call sites.
type ProgressionService struct {
	db *pgxpool.Pool
}

func NewProgressionService(db *pgxpool.Pool) *ProgressionService {
	return &ProgressionService{db: db}
}

// Grant applies an XP grant in its own transaction. Zero is accepted as a
// no-op grant with a full result; negative amounts are rejected.
func (s *ProgressionService) Grant(ctx context.Context, userID, amount int64, category *domain.Category) (*GrantResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := s.GrantTx(ctx, tx, userID, amount, category)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// GrantTx applies an XP grant inside the caller's transaction. The user row
// is locked for the duration, so concurrent grants serialize instead of
// losing updates. Total XP, level, current XP and (when a category is given)
// the category column are written as one statement.
func (s *ProgressionService) GrantTx(ctx context.Context, tx pgx.Tx, userID, amount int64, category *domain.Category) (*GrantResult, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	var categoryCol string
	if category != nil {
		col, ok := repository.CategoryColumn(*category)
		if !ok {
			return nil, ErrInvalidCategory
		}
		categoryCol = col
	}

	var totalXP int64
	err := tx.QueryRow(ctx, `SELECT total_xp FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&totalXP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res := progression.ApplyGrant(totalXP, amount)

	if category != nil {
		_, err = tx.Exec(ctx, fmt.Sprintf(
			`UPDATE users
			 SET total_xp = $1, level = $2, current_xp = $3, %s = %s + $4
			 WHERE id = $5`, categoryCol, categoryCol),
			res.NewTotalXP, res.NewLevel, res.NewCurrentXP, amount, userID)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE users
			 SET total_xp = $1, level = $2, current_xp = $3
			 WHERE id = $4`,
			res.NewTotalXP, res.NewLevel, res.NewCurrentXP, userID)
	}
	if err != nil {
		return nil, err
	}

	return &GrantResult{GrantResult: res, XPGained: amount, Category: category}, nil
}
