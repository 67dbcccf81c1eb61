package repository

import (
	"context"
	"errors"

	"airdrop-backend/internal/features/user/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrReferralCodeTaken = errors.New("referral code already taken")
)

type UserRepository interface {
	// Create inserts a new user. Returns ErrUserExists when a record with
	// the same telegram_uid is already present, and ErrReferralCodeTaken
	// when the generated referral_code collides with another user's.
	Create(ctx context.Context, user *models.User) error
	GetByTelegramUID(ctx context.Context, telegramUID string) (*models.User, error)
	// AddPoints atomically increments the user's points balance. Returns
	// ErrUserNotFound when no such user exists.
	AddPoints(ctx context.Context, telegramUID string, delta int64) error
	// ListByRefBy returns users referred by the given telegram_uid, newest
	// first.
	ListByRefBy(ctx context.Context, telegramUID string) ([]*models.User, error)
}
