package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"airdrop-backend/internal/features/activity/models"
	"airdrop-backend/internal/features/activity/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ActivityRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, activity *models.UserActivity) (bool, error) {
	details := activity.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return false, fmt.Errorf("failed to marshal details: %w", err)
	}

	// The unique constraint on (telegram_uid, task_id) makes this the
	// atomic insert-if-absent the crediting logic relies on.
	query := `
		INSERT INTO user_activity (id, telegram_uid, task_id, details, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (telegram_uid, task_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.TelegramUID, activity.TaskID, detailsJSON,
		activity.Status, activity.CompletedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *postgresRepository) MarkCompleted(ctx context.Context, telegramUID, taskID string, completedAt time.Time) (bool, error) {
	query := `
		UPDATE user_activity
		SET status = $3, completed_at = $4
		WHERE telegram_uid = $1 AND task_id = $2 AND status <> $3
	`

	result, err := r.db.ExecContext(ctx, query, telegramUID, taskID, models.StatusCompleted, completedAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark activity completed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *postgresRepository) GetByUserAndTask(ctx context.Context, telegramUID, taskID string) (*models.UserActivity, error) {
	query := `
		SELECT id, telegram_uid, task_id, details, status, completed_at, created_at
		FROM user_activity
		WHERE telegram_uid = $1 AND task_id = $2
	`

	activity, err := scanActivity(r.db.QueryRowContext(ctx, query, telegramUID, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return activity, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, telegramUID string) ([]*models.UserActivity, error) {
	query := `
		SELECT id, telegram_uid, task_id, details, status, completed_at, created_at
		FROM user_activity
		WHERE telegram_uid = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, telegramUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.UserActivity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*models.UserActivity, error) {
	var activity models.UserActivity
	var detailsJSON []byte
	var completedAt sql.NullTime

	err := row.Scan(
		&activity.ID, &activity.TelegramUID, &activity.TaskID, &detailsJSON,
		&activity.Status, &completedAt, &activity.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &activity.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal details: %w", err)
		}
	}

	if completedAt.Valid {
		activity.CompletedAt = &completedAt.Time
	}

	return &activity, nil
}
