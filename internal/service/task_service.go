package service

import (
	"context"
	"errors"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTaskAlreadyCompleted = errors.New("task already completed")

// TaskService grants one-shot task rewards. Completion is recorded per user,
// so one user finishing a task does not consume it for everyone else.
type TaskService struct {
	db      *pgxpool.Pool
	tasks   *repository.TaskRepository
	balance *BalanceService
}

func NewTaskService(db *pgxpool.Pool, balance *BalanceService) *TaskService {
	return &TaskService{
		db:      db,
		tasks:   repository.NewTaskRepository(db),
		balance: balance,
	}
}

// ListForUser returns active tasks with the user's completion state.
func (s *TaskService) ListForUser(ctx context.Context, userID int64) ([]*domain.TaskWithStatus, error) {
	return s.tasks.ListForUser(ctx, userID)
}

// Complete grants a task's rewards to the user: one CREDIT log entry per
// non-zero currency reward; a speed reward raises mining speed unlogged.
func (s *TaskService) Complete(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsActive {
		return nil, repository.ErrTaskNotFound
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize against concurrent mutations of the same user.
	var exists int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fresh, err := s.tasks.MarkCompletedWithTx(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, ErrTaskAlreadyCompleted
	}

	for _, reward := range task.CurrencyRewards() {
		if err := s.balance.CreditWithTx(ctx, tx, userID, reward.Currency, reward.Amount, "Task: "+task.Title); err != nil {
			return nil, err
		}
	}

	if task.RewardSpeed > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET mining_speed = mining_speed + $2 WHERE id = $1`,
			userID, task.RewardSpeed); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET tasks_completed = tasks_completed + 1 WHERE id = $1`, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.balance.NotifyUser(ctx, userID)
	return task, nil
}
