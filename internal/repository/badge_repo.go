package repository

import (
	"context"

	"github.com/sudosnarky/lifequest-app/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BadgeRepository struct {
	db *pgxpool.Pool
}

func NewBadgeRepository(db *pgxpool.Pool) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) Create(ctx context.Context, b *domain.Badge) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO badges (user_id, name) VALUES ($1, $2)
		 RETURNING id, created_at`,
		b.UserID, b.Name,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Badge, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, created_at
		 FROM badges
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}
