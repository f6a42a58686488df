package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrQuestNotFound = errors.New("quest not found")

const questColumns = `id, user_id, title, description, category, quest_type, difficulty,
		xp_reward, completed, completed_at, streak, due_date, created_at, updated_at`

type QuestRepository struct {
	db *pgxpool.Pool
}

func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

func scanQuest(row pgx.Row) (*domain.Quest, error) {
	var q domain.Quest
	err := row.Scan(
		&q.ID, &q.UserID, &q.Title, &q.Description, &q.Category, &q.Type, &q.Difficulty,
		&q.XPReward, &q.Completed, &q.CompletedAt, &q.Streak, &q.DueDate, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuestRepository) Create(ctx context.Context, q *domain.Quest) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO quests (user_id, title, description, category, quest_type, difficulty, xp_reward, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, completed, streak, created_at, updated_at`,
		q.UserID, q.Title, q.Description, q.Category, q.Type, q.Difficulty, q.XPReward, q.DueDate,
	).Scan(&q.ID, &q.Completed, &q.Streak, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID returns the quest only when it belongs to the given user; a quest
// owned by someone else is indistinguishable from a missing one.
func (r *QuestRepository) GetByID(ctx context.Context, userID, questID int64) (*domain.Quest, error) {
	return scanQuest(r.db.QueryRow(ctx,
		`SELECT `+questColumns+` FROM quests WHERE id = $1 AND user_id = $2`,
		questID, userID))
}

// QuestFilter narrows List results. Nil fields are ignored.
type QuestFilter struct {
	Type      *domain.QuestType
	Category  *domain.Category
	Completed *bool
}

// List returns the user's quests, incomplete first, newest first within each
// group.
func (r *QuestRepository) List(ctx context.Context, userID int64, f QuestFilter) ([]*domain.Quest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questColumns+`
		 FROM quests
		 WHERE user_id = $1
		   AND ($2::text IS NULL OR quest_type = $2)
		   AND ($3::text IS NULL OR category = $3)
		   AND ($4::boolean IS NULL OR completed = $4)
		 ORDER BY completed, created_at DESC`,
		userID, f.Type, f.Category, f.Completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, q)
	}
	return res, rows.Err()
}

// QuestUpdate holds editable fields. Type is deliberately absent: the reset
// cadence of a quest is fixed at creation.
type QuestUpdate struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Difficulty  *domain.Difficulty
	XPReward    *int64
	DueDate     *time.Time
}

// Update applies the non-nil fields and returns the updated quest. XPReward
// travels together with Difficulty; the service recomputes it whenever the
// difficulty changes.
func (r *QuestRepository) Update(ctx context.Context, userID, questID int64, u QuestUpdate) (*domain.Quest, error) {
	return scanQuest(r.db.QueryRow(ctx,
		`UPDATE quests
		 SET title       = COALESCE($1, title),
		     description = COALESCE($2, description),
		     category    = COALESCE($3, category),
		     difficulty  = COALESCE($4, difficulty),
		     xp_reward   = COALESCE($5, xp_reward),
		     due_date    = COALESCE($6::timestamptz, due_date),
		     updated_at  = now()
		 WHERE id = $7 AND user_id = $8
		 RETURNING `+questColumns,
		u.Title, u.Description, u.Category, u.Difficulty, u.XPReward, u.DueDate, questID, userID))
}

func (r *QuestRepository) Delete(ctx context.Context, userID, questID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM quests WHERE id = $1 AND user_id = $2`, questID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestNotFound
	}
	return nil
}
