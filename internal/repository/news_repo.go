package repository

import (
	"context"
	"errors"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNewsNotFound = errors.New("news not found")

type NewsRepository struct {
	db *pgxpool.Pool
}

func NewNewsRepository(db *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns announcements, newest first.
func (r *NewsRepository) List(ctx context.Context, limit int) ([]*domain.News, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, title, COALESCE(content, ''), created_at
		 FROM news
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.News
	for rows.Next() {
		var n domain.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &n)
	}
	return result, rows.Err()
}

func (r *NewsRepository) Create(ctx context.Context, n *domain.News) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO news (title, content) VALUES ($1, $2) RETURNING id, created_at`,
		n.Title, n.Content,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNewsNotFound
	}
	return nil
}
