package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xssnick/tonutils-go/address"

	"airdrop-backend/internal/common/cache"
	apperrors "airdrop-backend/internal/common/errors"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/common/validation"
	activitymodels "airdrop-backend/internal/features/activity/models"
	activityrepo "airdrop-backend/internal/features/activity/repository"
	taskmodels "airdrop-backend/internal/features/task/models"
	"airdrop-backend/internal/features/user/models"
	"airdrop-backend/internal/features/user/repository"
)

// ProfileCache is the slice of the cache service the user feature uses.
type ProfileCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateUser(ctx context.Context, telegramUID string) error
}

type UserService interface {
	// EnsureProfile returns the existing profile for the identity, or
	// creates one. Reports whether a new profile was created.
	EnsureProfile(ctx context.Context, telegramUID string, input models.CreateProfileInput) (*models.User, bool, error)
	GetProfile(ctx context.Context, telegramUID string) (*models.User, error)
	ListReferrals(ctx context.Context, telegramUID string) ([]*models.User, error)
}

type userService struct {
	users         repository.UserRepository
	activities    activityrepo.ActivityRepository
	cache         ProfileCache
	userTTL       time.Duration
	referralBonus int64
}

func NewUserService(users repository.UserRepository, activities activityrepo.ActivityRepository, cacheService ProfileCache, userTTL time.Duration, referralBonus int64) UserService {
	return &userService{
		users:         users,
		activities:    activities,
		cache:         cacheService,
		userTTL:       userTTL,
		referralBonus: referralBonus,
	}
}

func (s *userService) EnsureProfile(ctx context.Context, telegramUID string, input models.CreateProfileInput) (*models.User, bool, error) {
	if err := validation.ValidateTelegramUID(telegramUID); err != nil {
		return nil, false, apperrors.NewValidationError("telegram_uid", err.Error())
	}

	existing, err := s.users.GetByTelegramUID(ctx, telegramUID)
	if err == nil {
		// Upsert-once: the request payload is ignored for existing users,
		// so it is not validated either.
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, apperrors.NewDatabaseError("get user", err)
	}

	if err := validateProfileFields(input); err != nil {
		return nil, false, err
	}

	user := &models.User{
		ID:               uuid.NewString(),
		TelegramUID:      telegramUID,
		Name:             input.Name,
		Email:            input.Email,
		TelegramUsername: input.TelegramUsername,
		TwitterUsername:  input.TwitterUsername,
		TwitterUID:       input.TwitterUID,
		WalletAddress:    input.WalletAddress,
		ReferralCode:     newReferralCode(),
		RefBy:            input.RefBy,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.createWithFreshCode(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			// Lost a create race; the winner's record is the profile.
			existing, err := s.users.GetByTelegramUID(ctx, telegramUID)
			if err != nil {
				return nil, false, apperrors.NewDatabaseError("get user", err)
			}
			return existing, false, nil
		}
		return nil, false, apperrors.NewDatabaseError("create user", err)
	}

	if err := s.attributeReferral(ctx, user); err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, cache.UserKey(telegramUID), user, s.userTTL); err != nil {
		logger.Warn().Err(err).Str("telegram_uid", telegramUID).Msg("Failed to cache new user")
	}

	return user, true, nil
}

// attributeReferral credits the referrer at most once per referred signup.
// The insert of the synthetic "ref" activity is the gate: the bonus is paid
// only when that insert actually wrote a row.
func (s *userService) attributeReferral(ctx context.Context, user *models.User) error {
	refBy := user.RefBy
	if refBy == "" || refBy == user.TelegramUID {
		return nil
	}

	referrer, err := s.users.GetByTelegramUID(ctx, refBy)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown referrer is not an error; the signup stands.
			logger.Debug().Str("ref_by", refBy).Msg("Referrer not found, skipping bonus")
			return nil
		}
		return apperrors.NewDatabaseError("get referrer", err)
	}

	if referrer.IsBanned {
		logger.Info().Str("ref_by", refBy).Msg("Referrer is banned, skipping bonus")
		return nil
	}

	now := time.Now()
	inserted, err := s.activities.Insert(ctx, &activitymodels.UserActivity{
		ID:          uuid.NewString(),
		TelegramUID: user.TelegramUID,
		TaskID:      taskmodels.ReferralTaskID,
		Details:     map[string]interface{}{"ref_by": refBy},
		Status:      activitymodels.StatusCompleted,
		CompletedAt: &now,
	})
	if err != nil {
		return apperrors.NewDatabaseError("record referral activity", err)
	}
	if !inserted {
		return nil
	}

	if err := s.users.AddPoints(ctx, referrer.TelegramUID, s.referralBonus); err != nil {
		return apperrors.NewDatabaseError("credit referral bonus", err)
	}

	if err := s.cache.InvalidateUser(ctx, referrer.TelegramUID); err != nil {
		logger.Warn().Err(err).Str("telegram_uid", referrer.TelegramUID).Msg("Failed to invalidate referrer cache")
	}

	logger.Info().
		Str("telegram_uid", user.TelegramUID).
		Str("ref_by", refBy).
		Int64("bonus", s.referralBonus).
		Msg("Referral bonus credited")

	return nil
}

func (s *userService) GetProfile(ctx context.Context, telegramUID string) (*models.User, error) {
	var cached models.User
	if err := s.cache.Get(ctx, cache.UserKey(telegramUID), &cached); err == nil {
		return &cached, nil
	}

	user, err := s.users.GetByTelegramUID(ctx, telegramUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(telegramUID)
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}

	if err := s.cache.Set(ctx, cache.UserKey(telegramUID), user, s.userTTL); err != nil {
		logger.Warn().Err(err).Str("telegram_uid", telegramUID).Msg("Failed to cache user")
	}

	return user, nil
}

func (s *userService) ListReferrals(ctx context.Context, telegramUID string) ([]*models.User, error) {
	if err := validation.ValidateTelegramUID(telegramUID); err != nil {
		return nil, apperrors.NewValidationError("telegram_uid", err.Error())
	}

	referrals, err := s.users.ListByRefBy(ctx, telegramUID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list referrals", err)
	}

	return referrals, nil
}

// createWithFreshCode inserts the user, drawing a new referral code when the
// generated one collides with another user's. Codes are short enough that
// collisions happen at campaign scale.
func (s *userService) createWithFreshCode(ctx context.Context, user *models.User) error {
	var err error
	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		err = s.users.Create(ctx, user)
		if !errors.Is(err, repository.ErrReferralCodeTaken) {
			return err
		}

		logger.Debug().
			Str("telegram_uid", user.TelegramUID).
			Str("referral_code", user.ReferralCode).
			Msg("Referral code collision, regenerating")
		user.ReferralCode = newReferralCode()
	}
	return err
}

func validateProfileFields(input models.CreateProfileInput) error {
	if input.Name != "" {
		if err := validation.ValidateName(input.Name); err != nil {
			return apperrors.NewValidationError("name", err.Error())
		}
	}
	if input.Email != "" {
		if err := validation.ValidateEmail(input.Email); err != nil {
			return apperrors.NewValidationError("email", err.Error())
		}
	}
	if input.WalletAddress != "" {
		// Airdrop payouts go to TON wallets.
		if _, err := address.ParseAddr(input.WalletAddress); err != nil {
			return apperrors.New(apperrors.ErrCodeInvalidWallet, "Invalid TON wallet address").
				WithDetail("wallet_address", input.WalletAddress)
		}
	}
	return nil
}

// referralCodeAttempts bounds how many codes are tried per signup before
// the insert error is surfaced.
const referralCodeAttempts = 3

// newReferralCode generates the shareable code for a fresh profile.
func newReferralCode() string {
	return uuid.NewString()[:8]
}
