package service

import (
	"context"
	"errors"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/progression"
	"github.com/sudosnarky/lifequest-app/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestService owns the quest lifecycle: creation with a frozen XP reward,
// the Incomplete -> Completed transition, and the daily/weekly resets.
type QuestService struct {
	db          *pgxpool.Pool
	quests      *repository.QuestRepository
	progression *ProgressionService
}

func NewQuestService(db *pgxpool.Pool) *QuestService {
	return &QuestService{
		db:          db,
		quests:      repository.NewQuestRepository(db),
		progression: NewProgressionService(db),
	}
}

type CreateQuestInput struct {
	Title       string
	Description string
	Category    domain.Category
	Type        domain.QuestType
	Difficulty  domain.Difficulty
	DueDate     *time.Time
}

// Create stores a new quest. The XP reward is computed from difficulty once,
// here; completing the quest later pays this stored value even if the reward
// table ever changes.
func (s *QuestService) Create(ctx context.Context, userID int64, in CreateQuestInput) (*domain.Quest, error) {
	if !in.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	q := &domain.Quest{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		Difficulty:  in.Difficulty,
		XPReward:    progression.RewardForDifficulty(in.Difficulty),
		DueDate:     in.DueDate,
	}
	if err := s.quests.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestService) Get(ctx context.Context, userID, questID int64) (*domain.Quest, error) {
	q, err := s.quests.GetByID(ctx, userID, questID)
	if errors.Is(err, repository.ErrQuestNotFound) {
		return nil, ErrNotFound
	}
	return q, err
}

func (s *QuestService) List(ctx context.Context, userID int64, f repository.QuestFilter) ([]*domain.Quest, error) {
	return s.quests.List(ctx, userID, f)
}

type UpdateQuestInput struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Difficulty  *domain.Difficulty
	DueDate     *time.Time
}

// Update edits quest fields. A difficulty change recomputes the stored
// reward; quest type and completion state are not editable here.
func (s *QuestService) Update(ctx context.Context, userID, questID int64, in UpdateQuestInput) (*domain.Quest, error) {
	if in.Category != nil && !in.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	upd := repository.QuestUpdate{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		DueDate:     in.DueDate,
	}
	if in.Difficulty != nil {
		reward := progression.RewardForDifficulty(*in.Difficulty)
		upd.XPReward = &reward
	}
	q, err := s.quests.Update(ctx, userID, questID, upd)
	if errors.Is(err, repository.ErrQuestNotFound) {
		return nil, ErrNotFound
	}
	return q, err
}

func (s *QuestService) Delete(ctx context.Context, userID, questID int64) error {
	err := s.quests.Delete(ctx, userID, questID)
	if errors.Is(err, repository.ErrQuestNotFound) {
		return ErrNotFound
	}
	return err
}

// CompleteResult reports a successful completion plus the XP outcome the
// client uses for its celebration UI.
type CompleteResult struct {
	Quest      *domain.Quest
	XPGained   int64
	Category   domain.Category
	LeveledUp  bool
	NewLevel   int
	NewTotalXP int64
}

// Complete transitions a quest to Completed and grants its stored XP reward,
// all in one transaction. The quest row is locked first, then the user row
// (inside GrantTx); two racing completions of the same quest end up with one
// success and one ErrAlreadyCompleted.
func (s *QuestService) Complete(ctx context.Context, userID, questID int64) (*CompleteResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var q domain.Quest
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, title, description, category, quest_type, difficulty,
		        xp_reward, completed, completed_at, streak, due_date, created_at, updated_at
		 FROM quests
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		questID, userID,
	).Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.Category, &q.Type, &q.Difficulty,
		&q.XPReward, &q.Completed, &q.CompletedAt, &q.Streak, &q.DueDate, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if q.Completed {
		return nil, ErrAlreadyCompleted
	}

	now := time.Now()
	q.Completed = true
	q.CompletedAt = &now
	if q.Type == domain.QuestTypeDaily {
		q.Streak++
	}

	_, err = tx.Exec(ctx,
		`UPDATE quests
		 SET completed = true, completed_at = $1, streak = $2, updated_at = now()
		 WHERE id = $3`,
		now, q.Streak, q.ID)
	if err != nil {
		return nil, err
	}

	grant, err := s.progression.GrantTx(ctx, tx, userID, q.XPReward, &q.Category)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CompleteResult{
		Quest:      &q,
		XPGained:   grant.XPGained,
		Category:   q.Category,
		LeveledUp:  grant.LeveledUp,
		NewLevel:   grant.NewLevel,
		NewTotalXP: grant.NewTotalXP,
	}, nil
}

// ResetDaily makes all of the user's daily quests available again. Streaks
// are zeroed only for quests that were not completed this cycle; completed
// quests keep their already-incremented streak.
func (s *QuestService) ResetDaily(ctx context.Context, userID int64) error {
	return s.resetDaily(ctx, &userID)
}

// ResetWeekly makes all of the user's weekly quests available again. Weekly
// quests carry no streak.
func (s *QuestService) ResetWeekly(ctx context.Context, userID int64) error {
	return s.resetWeekly(ctx, &userID)
}

// ResetDailyAll sweeps every user's daily quests; used by the scheduler.
func (s *QuestService) ResetDailyAll(ctx context.Context) error {
	return s.resetDaily(ctx, nil)
}

// ResetWeeklyAll sweeps every user's weekly quests; used by the scheduler.
func (s *QuestService) ResetWeeklyAll(ctx context.Context) error {
	return s.resetWeekly(ctx, nil)
}

func (s *QuestService) resetDaily(ctx context.Context, userID *int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Streak break first, while completed still reflects the ending cycle.
	_, err = tx.Exec(ctx,
		`UPDATE quests SET streak = 0, updated_at = now()
		 WHERE quest_type = 'daily' AND completed = false
		   AND ($1::bigint IS NULL OR user_id = $1)`, userID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE quests SET completed = false, completed_at = NULL, updated_at = now()
		 WHERE quest_type = 'daily'
		   AND ($1::bigint IS NULL OR user_id = $1)`, userID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *QuestService) resetWeekly(ctx context.Context, userID *int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE quests SET completed = false, completed_at = NULL, updated_at = now()
		 WHERE quest_type = 'weekly'
		   AND ($1::bigint IS NULL OR user_id = $1)`, userID)
	return err
}
