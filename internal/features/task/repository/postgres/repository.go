package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"airdrop-backend/internal/features/task/models"
	"airdrop-backend/internal/features/task/repository"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.TaskRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, task_id, task_type, description, reward, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.TaskID, task.TaskType, task.Description, task.Reward, task.IsActive)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrTaskExists
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByTaskID(ctx context.Context, taskID string) (*models.Task, error) {
	query := `
		SELECT id, task_id, task_type, description, reward, is_active, created_at
		FROM tasks
		WHERE task_id = $1
	`

	var task models.Task
	err := r.db.QueryRowContext(ctx, query, taskID).Scan(
		&task.ID, &task.TaskID, &task.TaskType, &task.Description,
		&task.Reward, &task.IsActive, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]*models.Task, error) {
	query := `
		SELECT id, task_id, task_type, description, reward, is_active, created_at
		FROM tasks
		WHERE is_active = TRUE
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var task models.Task
		err := rows.Scan(
			&task.ID, &task.TaskID, &task.TaskType, &task.Description,
			&task.Reward, &task.IsActive, &task.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}
