package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sudosnarky/lifequest-app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, email, username, password_hash, name, avatar_uri, COALESCE(avatar_color, ''),
		level, current_xp, total_xp,
		academics_xp, fitness_xp, creativity_xp, exploration_xp, wellness_xp, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Name, &u.AvatarURI, &u.AvatarColor,
		&u.Level, &u.CurrentXP, &u.TotalXP,
		&u.AcademicsXP, &u.FitnessXP, &u.CreativityXP, &u.ExplorationXP, &u.WellnessXP, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Progression starts at level 1 with zero XP
// (column defaults); the returned struct is populated with the stored row.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, level, current_xp, total_xp, created_at`,
		u.Email, u.Username, u.PasswordHash, u.Name,
	).Scan(&u.ID, &u.Level, &u.CurrentXP, &u.TotalXP, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UpdateProfile applies the non-nil fields and returns the updated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, name, avatarURI, avatarColor *string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($1, name),
		     avatar_uri = COALESCE($2, avatar_uri),
		     avatar_color = COALESCE($3, avatar_color)
		 WHERE id = $4
		 RETURNING `+userColumns,
		name, avatarURI, avatarColor, userID))
}

// LeaderboardEntry is one ranked row of a leaderboard response.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Name        string  `json:"name"`
	AvatarURI   *string `json:"avatar_uri,omitempty"`
	AvatarColor string  `json:"avatar_color"`
	Level       int     `json:"level"`
	XP          int64   `json:"xp"`
}

// GetTopByTotalXP returns users ordered by lifetime XP.
func (r *UserRepository) GetTopByTotalXP(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, username, name, avatar_uri, COALESCE(avatar_color, ''), level, total_xp
		 FROM users
		 ORDER BY total_xp DESC, id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

// GetTopByCategory returns users ordered by XP in one category. The category
// must already be validated; unknown categories are rejected here as well.
func (r *UserRepository) GetTopByCategory(ctx context.Context, category domain.Category, limit int) ([]LeaderboardEntry, error) {
	col, ok := CategoryColumn(category)
	if !ok {
		return nil, fmt.Errorf("no xp column for category %q", category)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, username, name, avatar_uri, COALESCE(avatar_color, ''), level, `+col+`
		 FROM users
		 ORDER BY `+col+` DESC, id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

func scanLeaderboard(rows pgx.Rows) ([]LeaderboardEntry, error) {
	var res []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Name, &e.AvatarURI, &e.AvatarColor, &e.Level, &e.XP); err != nil {
			return nil, err
		}
		e.Rank = rank
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// GetOverallRank returns the user's 1-based rank by total XP.
func (r *UserRepository) GetOverallRank(ctx context.Context, userID int64) (int, error) {
	var rank int
	err := r.db.QueryRow(ctx, `
		SELECT rank FROM (
			SELECT id, RANK() OVER (ORDER BY total_xp DESC) AS rank
			FROM users
		) ranked
		WHERE id = $1`, userID).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return rank, nil
}

// GetCategoryRanks returns the user's rank in every category.
func (r *UserRepository) GetCategoryRanks(ctx context.Context, userID int64) (map[domain.Category]int, error) {
	ranks := make(map[domain.Category]int, len(domain.Categories()))
	for _, c := range domain.Categories() {
		col, _ := CategoryColumn(c)
		var rank int
		err := r.db.QueryRow(ctx, `
			SELECT rank FROM (
				SELECT id, RANK() OVER (ORDER BY `+col+` DESC) AS rank
				FROM users
			) ranked
			WHERE id = $1`, userID).Scan(&rank)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		ranks[c] = rank
	}
	return ranks, nil
}
