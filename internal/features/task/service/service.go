package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "airdrop-backend/internal/common/errors"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/common/validation"
	"airdrop-backend/internal/features/task/models"
	"airdrop-backend/internal/features/task/repository"
)

type TaskService interface {
	// CreateTask registers a new task definition. Task definitions are
	// immutable once created; a duplicate task_id is a conflict.
	CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error)
	ListActiveTasks(ctx context.Context) ([]*models.Task, error)
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error) {
	if err := validation.ValidateTaskID(input.TaskID); err != nil {
		return nil, apperrors.NewValidationError("task_id", err.Error())
	}
	if err := validation.ValidateTaskType(input.TaskType); err != nil {
		return nil, apperrors.NewValidationError("task_type", err.Error())
	}
	if err := validation.ValidateDescription(input.Description); err != nil {
		return nil, apperrors.NewValidationError("description", err.Error())
	}
	if err := validation.ValidateReward(input.Reward); err != nil {
		return nil, apperrors.NewValidationError("reward", err.Error())
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		TaskID:      input.TaskID,
		TaskType:    input.TaskType,
		Description: input.Description,
		Reward:      input.Reward,
		IsActive:    input.IsActive,
		CreatedAt:   time.Now(),
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskExists) {
			return nil, apperrors.NewTaskExistsError(input.TaskID)
		}
		return nil, apperrors.NewDatabaseError("create task", err)
	}

	logger.Info().
		Str("task_id", task.TaskID).
		Str("task_type", task.TaskType).
		Int64("reward", task.Reward).
		Msg("Task created")

	return task, nil
}

func (s *taskService) ListActiveTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.tasks.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tasks", err)
	}

	return tasks, nil
}
