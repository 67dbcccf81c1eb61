package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "airdrop-backend/internal/common/errors"
	"airdrop-backend/internal/features/task/models"
	"airdrop-backend/internal/features/task/repository"
)

type memTaskRepo struct {
	tasks map[string]*models.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*models.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.TaskID]; ok {
		return repository.ErrTaskExists
	}
	r.tasks[task.TaskID] = task
	return nil
}

func (r *memTaskRepo) GetByTaskID(_ context.Context, taskID string) (*models.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return task, nil
}

func (r *memTaskRepo) ListActive(_ context.Context) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range r.tasks {
		if task.IsActive {
			out = append(out, task)
		}
	}
	return out, nil
}

func validInput() models.CreateTaskInput {
	return models.CreateTaskInput{
		TaskID:      "join_group",
		TaskType:    models.TaskTypeTelegramJoin,
		Description: "Join the community group",
		Reward:      500,
		IsActive:    true,
	}
}

func TestCreateTask(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	task, err := svc.CreateTask(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "join_group", task.TaskID)
	assert.Equal(t, int64(500), task.Reward)
	assert.True(t, task.IsActive)
}

func TestCreateTaskDuplicate(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	_, err := svc.CreateTask(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.CreateTask(context.Background(), validInput())
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTaskExists, appErr.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	cases := []struct {
		name   string
		mutate func(*models.CreateTaskInput)
	}{
		{"empty task_id", func(in *models.CreateTaskInput) { in.TaskID = "" }},
		{"uppercase task_id", func(in *models.CreateTaskInput) { in.TaskID = "Join-Group" }},
		{"empty task_type", func(in *models.CreateTaskInput) { in.TaskType = "" }},
		{"blank description", func(in *models.CreateTaskInput) { in.Description = "   " }},
		{"zero reward", func(in *models.CreateTaskInput) { in.Reward = 0 }},
		{"negative reward", func(in *models.CreateTaskInput) { in.Reward = -10 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, err := svc.CreateTask(context.Background(), input)
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		})
	}
}

func TestListActiveTasksFiltersInactive(t *testing.T) {
	svc := NewTaskService(newMemTaskRepo())

	_, err := svc.CreateTask(context.Background(), validInput())
	require.NoError(t, err)

	inactive := validInput()
	inactive.TaskID = "old_task"
	inactive.IsActive = false
	_, err = svc.CreateTask(context.Background(), inactive)
	require.NoError(t, err)

	tasks, err := svc.ListActiveTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "join_group", tasks[0].TaskID)
}
