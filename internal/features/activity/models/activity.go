package models

import "time"

// StatusCompleted is the terminal activity status. An activity whose status
// is completed is never credited again.
const StatusCompleted = "completed"

// UserActivity records one user's progress on one task. At most one record
// exists per (telegram_uid, task_id) pair.
type UserActivity struct {
	ID          string                 `json:"id"`
	TelegramUID string                 `json:"telegram_uid"`
	TaskID      string                 `json:"task_id"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Status      string                 `json:"status,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// IsCompleted reports whether the record is terminal.
func (a *UserActivity) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// RecordActivityInput is the POST /useractivity body.
type RecordActivityInput struct {
	TelegramUID string                 `json:"telegram_uid"`
	TaskID      string                 `json:"task_id"`
	Details     map[string]interface{} `json:"details"`
	Status      string                 `json:"status"`
}

// VerifyInput is the POST /verify body.
type VerifyInput struct {
	TelegramUID string `json:"telegram_uid"`
	TaskID      string `json:"task_id"`
}

// VerifyResult is the outcome of a verification attempt.
type VerifyResult struct {
	Verified        bool  `json:"verified"`
	Credited        bool  `json:"credited"`
	AlreadyCredited bool  `json:"already_credited"`
	PointsAwarded   int64 `json:"points_awarded"`
}
