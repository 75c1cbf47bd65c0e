package repository

import (
	"context"
	"errors"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `id, title, COALESCE(description, ''), COALESCE(link, ''),
	reward_coin, reward_usd, reward_diamond, reward_star, reward_speed, is_active, created_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Link,
		&t.RewardCoin, &t.RewardUSD, &t.RewardDiamond, &t.RewardStar,
		&t.RewardSpeed, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

// ListActive returns active tasks in insertion order.
func (r *TaskRepository) ListActive(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE is_active = true ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ListForUser returns active tasks annotated with the user's completion state.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.TaskWithStatus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.title, COALESCE(t.description, ''), COALESCE(t.link, ''),
		        t.reward_coin, t.reward_usd, t.reward_diamond, t.reward_star, t.reward_speed,
		        t.is_active, t.created_at,
		        ut.completed_at
		 FROM tasks t
		 LEFT JOIN user_tasks ut ON ut.task_id = t.id AND ut.user_id = $1
		 WHERE t.is_active = true
		 ORDER BY t.id ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.TaskWithStatus
	for rows.Next() {
		var ts domain.TaskWithStatus
		if err := rows.Scan(&ts.ID, &ts.Title, &ts.Description, &ts.Link,
			&ts.RewardCoin, &ts.RewardUSD, &ts.RewardDiamond, &ts.RewardStar, &ts.RewardSpeed,
			&ts.IsActive, &ts.CreatedAt, &ts.CompletedAt); err != nil {
			return nil, err
		}
		ts.Completed = ts.CompletedAt != nil
		result = append(result, &ts)
	}
	return result, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, link, reward_coin, reward_usd, reward_diamond, reward_star, reward_speed, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		t.Title, t.Description, t.Link, t.RewardCoin, t.RewardUSD, t.RewardDiamond,
		t.RewardStar, t.RewardSpeed, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TaskRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// IsCompletedBy reports whether the user already completed the task.
func (r *TaskRepository) IsCompletedBy(ctx context.Context, userID, taskID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_tasks WHERE user_id = $1 AND task_id = $2)`,
		userID, taskID).Scan(&exists)
	return exists, err
}

// MarkCompletedWithTx records a per-user completion inside an existing
// transaction. Returns false when the task was already completed by the user.
func (r *TaskRepository) MarkCompletedWithTx(ctx context.Context, dbTx pgx.Tx, userID, taskID int64) (bool, error) {
	tag, err := dbTx.Exec(ctx,
		`INSERT INTO user_tasks (user_id, task_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, task_id) DO NOTHING`,
		userID, taskID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
