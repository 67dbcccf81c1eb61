package repository

import (
	"context"
	"errors"

	"airdrop-backend/internal/features/task/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskExists   = errors.New("task already exists")
)

type TaskRepository interface {
	// Create inserts a new task definition. Returns ErrTaskExists when the
	// task_id business key is already taken.
	Create(ctx context.Context, task *models.Task) error
	GetByTaskID(ctx context.Context, taskID string) (*models.Task, error)
	ListActive(ctx context.Context) ([]*models.Task, error)
}
