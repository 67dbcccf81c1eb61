package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxTaskIDLength      = 64
	MaxTaskTypeLength    = 32
	MaxDescriptionLength = 1000
	MaxNameLength        = 128
	MaxEmailLength       = 254
)

// Telegram UIDs arrive as strings but are numeric identifiers.
var telegramUIDRegex = regexp.MustCompile(`^[0-9]{1,20}$`)

// Task IDs are slug-like business keys ("task1", "follow_channel").
var taskIDRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateTelegramUID checks the external identity used as the primary key.
func ValidateTelegramUID(uid string) error {
	if uid == "" {
		return fmt.Errorf("telegram_uid cannot be empty")
	}
	if !telegramUIDRegex.MatchString(uid) {
		return fmt.Errorf("telegram_uid must be a numeric identifier")
	}
	return nil
}

// ValidateTaskID checks a task business key.
func ValidateTaskID(taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task_id cannot be empty")
	}
	if len(taskID) > MaxTaskIDLength {
		return fmt.Errorf("task_id cannot exceed %d characters", MaxTaskIDLength)
	}
	if !taskIDRegex.MatchString(taskID) {
		return fmt.Errorf("task_id may contain only lowercase letters, digits, '_' and '-'")
	}
	return nil
}

// ValidateTaskType checks the task type tag.
func ValidateTaskType(taskType string) error {
	if taskType == "" {
		return fmt.Errorf("task_type cannot be empty")
	}
	if len(taskType) > MaxTaskTypeLength {
		return fmt.Errorf("task_type cannot exceed %d characters", MaxTaskTypeLength)
	}
	return nil
}

// ValidateDescription checks a task description.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateReward checks a task point reward.
func ValidateReward(reward int64) error {
	if reward <= 0 {
		return fmt.Errorf("reward must be positive")
	}
	return nil
}

// ValidateEmail checks an optional profile email.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateName checks an optional profile name.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}
