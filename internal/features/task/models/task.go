package models

import "time"

// Task types form the closed set of verification strategies. Anything not
// listed here is rejected by the ledger with UNSUPPORTED_TASK_TYPE.
const (
	// TaskTypeTelegramJoin is verified through a getChatMember call against
	// the configured campaign chat.
	TaskTypeTelegramJoin = "telegram_join"

	// TaskTypeTelegramMessage exists in task definitions but has no working
	// verification yet.
	TaskTypeTelegramMessage = "telegram_message"
)

// ReferralTaskID is the synthetic task recorded when a referred user signs
// up. It never exists in the tasks table.
const ReferralTaskID = "ref"

// Task is an administrator-defined completable action with a fixed reward.
type Task struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	TaskType    string    `json:"task_type"`
	Description string    `json:"description"`
	Reward      int64     `json:"reward"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTaskInput is the POST /admin/tasks/create body.
type CreateTaskInput struct {
	TaskID      string `json:"task_id"`
	TaskType    string `json:"task_type"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
	IsActive    bool   `json:"is_active"`
}
