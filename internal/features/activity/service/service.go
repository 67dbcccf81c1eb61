package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "airdrop-backend/internal/common/errors"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/common/validation"
	"airdrop-backend/internal/features/activity/models"
	"airdrop-backend/internal/features/activity/repository"
	taskmodels "airdrop-backend/internal/features/task/models"
	taskrepo "airdrop-backend/internal/features/task/repository"
	userrepo "airdrop-backend/internal/features/user/repository"
)

// Verifier answers whether the Telegram user is currently a member of the
// configured campaign chat.
type Verifier interface {
	VerifyGroupMembership(ctx context.Context, telegramUID string) (bool, error)
}

// UserCache is the slice of the cache service the ledger needs: dropping a
// stale profile after its points change.
type UserCache interface {
	InvalidateUser(ctx context.Context, telegramUID string) error
}

type ActivityService interface {
	// RecordActivity is an idempotent insert: the first call for a
	// (telegram_uid, task_id) pair creates the record, later calls return
	// the existing one with created=false. No points are credited here.
	RecordActivity(ctx context.Context, input models.RecordActivityInput) (*models.UserActivity, bool, error)

	// VerifyAndCredit runs the verification strategy for the task's type
	// and, on success, completes the activity and credits the task reward
	// at most once.
	VerifyAndCredit(ctx context.Context, telegramUID, taskID string) (*models.VerifyResult, error)

	ListActivities(ctx context.Context, telegramUID string) ([]*models.UserActivity, error)
}

type activityService struct {
	activities repository.ActivityRepository
	tasks      taskrepo.TaskRepository
	users      userrepo.UserRepository
	verifier   Verifier
	cache      UserCache
}

func NewActivityService(activities repository.ActivityRepository, tasks taskrepo.TaskRepository, users userrepo.UserRepository, verifier Verifier, userCache UserCache) ActivityService {
	return &activityService{
		activities: activities,
		tasks:      tasks,
		users:      users,
		verifier:   verifier,
		cache:      userCache,
	}
}

func (s *activityService) RecordActivity(ctx context.Context, input models.RecordActivityInput) (*models.UserActivity, bool, error) {
	if err := validation.ValidateTelegramUID(input.TelegramUID); err != nil {
		return nil, false, apperrors.NewValidationError("telegram_uid", err.Error())
	}
	if err := validation.ValidateTaskID(input.TaskID); err != nil {
		return nil, false, apperrors.NewValidationError("task_id", err.Error())
	}

	now := time.Now()
	activity := &models.UserActivity{
		ID:          uuid.NewString(),
		TelegramUID: input.TelegramUID,
		TaskID:      input.TaskID,
		Details:     input.Details,
		Status:      input.Status,
		CompletedAt: &now,
		CreatedAt:   now,
	}

	inserted, err := s.activities.Insert(ctx, activity)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("insert activity", err)
	}
	if inserted {
		return activity, true, nil
	}

	existing, err := s.activities.GetByUserAndTask(ctx, input.TelegramUID, input.TaskID)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("get activity", err)
	}

	return existing, false, nil
}

func (s *activityService) VerifyAndCredit(ctx context.Context, telegramUID, taskID string) (*models.VerifyResult, error) {
	if err := validation.ValidateTelegramUID(telegramUID); err != nil {
		return nil, apperrors.NewValidationError("telegram_uid", err.Error())
	}
	if err := validation.ValidateTaskID(taskID); err != nil {
		return nil, apperrors.NewValidationError("task_id", err.Error())
	}

	task, err := s.tasks.GetByTaskID(ctx, taskID)
	if err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			return nil, apperrors.NewTaskNotFoundError(taskID)
		}
		return nil, apperrors.NewDatabaseError("get task", err)
	}

	if !task.IsActive {
		return nil, apperrors.New(apperrors.ErrCodeTaskInactive, "Task is not active").
			WithDetail("task_id", taskID)
	}

	verified, err := s.verify(ctx, telegramUID, task)
	if err != nil {
		return nil, err
	}
	if !verified {
		return &models.VerifyResult{Verified: false}, nil
	}

	return s.credit(ctx, telegramUID, task)
}

// verify dispatches to the strategy for the task's type. The set is closed:
// task types without a strategy are rejected instead of silently passing.
func (s *activityService) verify(ctx context.Context, telegramUID string, task *taskmodels.Task) (bool, error) {
	switch task.TaskType {
	case taskmodels.TaskTypeTelegramJoin:
		verified, err := s.verifier.VerifyGroupMembership(ctx, telegramUID)
		if err != nil {
			return false, apperrors.NewTelegramAPIError("getChatMember", err)
		}
		return verified, nil
	default:
		return false, apperrors.NewUnsupportedTaskTypeError(task.TaskType)
	}
}

// credit completes the activity and pays the reward exactly once. Either the
// completed insert or the pending-to-completed transition must have changed
// a row for points to move; an already-completed record yields no delta.
func (s *activityService) credit(ctx context.Context, telegramUID string, task *taskmodels.Task) (*models.VerifyResult, error) {
	now := time.Now()

	inserted, err := s.activities.Insert(ctx, &models.UserActivity{
		ID:          uuid.NewString(),
		TelegramUID: telegramUID,
		TaskID:      task.TaskID,
		Details:     map[string]interface{}{},
		Status:      models.StatusCompleted,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("insert activity", err)
	}

	shouldCredit := inserted
	if !inserted {
		transitioned, err := s.activities.MarkCompleted(ctx, telegramUID, task.TaskID, now)
		if err != nil {
			return nil, apperrors.NewDatabaseError("complete activity", err)
		}
		shouldCredit = transitioned
	}

	if !shouldCredit {
		return &models.VerifyResult{Verified: true, AlreadyCredited: true}, nil
	}

	if err := s.users.AddPoints(ctx, telegramUID, task.Reward); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Completion stands even when no profile exists to credit.
			logger.Warn().
				Str("telegram_uid", telegramUID).
				Str("task_id", task.TaskID).
				Msg("Verified activity for unknown user, no points credited")
			return &models.VerifyResult{Verified: true}, nil
		}
		return nil, apperrors.NewDatabaseError("credit reward", err)
	}

	if err := s.cache.InvalidateUser(ctx, telegramUID); err != nil {
		logger.Warn().Err(err).Str("telegram_uid", telegramUID).Msg("Failed to invalidate user cache")
	}

	logger.Info().
		Str("telegram_uid", telegramUID).
		Str("task_id", task.TaskID).
		Int64("reward", task.Reward).
		Msg("Task reward credited")

	return &models.VerifyResult{Verified: true, Credited: true, PointsAwarded: task.Reward}, nil
}

func (s *activityService) ListActivities(ctx context.Context, telegramUID string) ([]*models.UserActivity, error) {
	if err := validation.ValidateTelegramUID(telegramUID); err != nil {
		return nil, apperrors.NewValidationError("telegram_uid", err.Error())
	}

	activities, err := s.activities.ListByUser(ctx, telegramUID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list activities", err)
	}

	return activities, nil
}
