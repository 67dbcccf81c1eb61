package repository

import (
	"context"
	"errors"
	"time"

	"airdrop-backend/internal/features/activity/models"
)

var ErrActivityNotFound = errors.New("activity not found")

type ActivityRepository interface {
	// Insert writes the activity if no record exists yet for its
	// (telegram_uid, task_id) pair. Reports whether a row was actually
	// inserted; false means the pair was already recorded. This insert-if-
	// absent is the gate all crediting decisions hang on.
	Insert(ctx context.Context, activity *models.UserActivity) (bool, error)

	// MarkCompleted transitions a non-completed record to completed.
	// Reports whether a row changed; false means the record was already
	// completed or absent.
	MarkCompleted(ctx context.Context, telegramUID, taskID string, completedAt time.Time) (bool, error)

	GetByUserAndTask(ctx context.Context, telegramUID, taskID string) (*models.UserActivity, error)
	ListByUser(ctx context.Context, telegramUID string) ([]*models.UserActivity, error)
}
