package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"airdrop-backend/internal/features/user/models"
	"airdrop-backend/internal/features/user/repository"
)

const uniqueViolation = "23505"

// Constraint names Postgres assigns to the inline UNIQUE columns in the
// users table. Both surface as 23505, so the constraint name is the only
// way to tell a duplicate signup from a referral code collision.
const (
	telegramUIDConstraint  = "users_telegram_uid_key"
	referralCodeConstraint = "users_referral_code_key"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

const userColumns = `id, telegram_uid, name, email, telegram_username,
	twitter_username, twitter_uid, wallet_address, points, referral_code,
	ref_by, is_banned, is_admin, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, telegram_uid, name, email, telegram_username,
			twitter_username, twitter_uid, wallet_address, points,
			referral_code, ref_by, is_banned, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.TelegramUID, user.Name, user.Email, user.TelegramUsername,
		user.TwitterUsername, user.TwitterUID, user.WalletAddress, user.Points,
		user.ReferralCode, user.RefBy, user.IsBanned, user.IsAdmin)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == referralCodeConstraint {
				return repository.ErrReferralCodeTaken
			}
			return repository.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByTelegramUID(ctx context.Context, telegramUID string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE telegram_uid = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, telegramUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *postgresRepository) AddPoints(ctx context.Context, telegramUID string, delta int64) error {
	query := `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE telegram_uid = $1
	`

	result, err := r.db.ExecContext(ctx, query, telegramUID, delta)
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) ListByRefBy(ctx context.Context, telegramUID string) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE ref_by = $1
		ORDER BY created_at DESC
	`, userColumns)

	rows, err := r.db.QueryContext(ctx, query, telegramUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.TelegramUID, &user.Name, &user.Email, &user.TelegramUsername,
		&user.TwitterUsername, &user.TwitterUID, &user.WalletAddress, &user.Points,
		&user.ReferralCode, &user.RefBy, &user.IsBanned, &user.IsAdmin,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
