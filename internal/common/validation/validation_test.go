package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTelegramUID(t *testing.T) {
	assert.NoError(t, ValidateTelegramUID("123456789"))
	assert.NoError(t, ValidateTelegramUID("1"))

	assert.Error(t, ValidateTelegramUID(""))
	assert.Error(t, ValidateTelegramUID("abc"))
	assert.Error(t, ValidateTelegramUID("12 34"))
	assert.Error(t, ValidateTelegramUID("-5"))
	assert.Error(t, ValidateTelegramUID(strings.Repeat("9", 21)))
}

func TestValidateTaskID(t *testing.T) {
	assert.NoError(t, ValidateTaskID("task1"))
	assert.NoError(t, ValidateTaskID("follow_channel"))
	assert.NoError(t, ValidateTaskID("join-group-2"))

	assert.Error(t, ValidateTaskID(""))
	assert.Error(t, ValidateTaskID("Task1"))
	assert.Error(t, ValidateTaskID("task 1"))
	assert.Error(t, ValidateTaskID(strings.Repeat("a", MaxTaskIDLength+1)))
}

func TestValidateReward(t *testing.T) {
	assert.NoError(t, ValidateReward(1))
	assert.NoError(t, ValidateReward(10000))

	assert.Error(t, ValidateReward(0))
	assert.Error(t, ValidateReward(-100))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))

	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("user@"))
	assert.Error(t, ValidateEmail("@example.com"))
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription("Join the community group"))

	assert.Error(t, ValidateDescription(""))
	assert.Error(t, ValidateDescription("   "))
	assert.Error(t, ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)))
}
