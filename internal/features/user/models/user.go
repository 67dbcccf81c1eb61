package models

import "time"

// User is a campaign participant. TelegramUID is the external identity and
// the primary lookup key; ID is the internal record identifier.
type User struct {
	ID               string    `json:"id"`
	TelegramUID      string    `json:"telegram_uid"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email,omitempty"`
	TelegramUsername string    `json:"telegram_username,omitempty"`
	TwitterUsername  string    `json:"twitter_username,omitempty"`
	TwitterUID       string    `json:"twitter_uid,omitempty"`
	WalletAddress    string    `json:"wallet_address,omitempty"`
	Points           int64     `json:"points"`
	ReferralCode     string    `json:"referral_code"`
	RefBy            string    `json:"ref_by,omitempty"`
	IsBanned         bool      `json:"is_banned"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateProfileInput is the POST /profile body. All fields are optional; on
// an existing profile the whole payload is ignored.
type CreateProfileInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	TelegramUsername string `json:"telegram_username"`
	TwitterUsername  string `json:"twitter_username"`
	TwitterUID       string `json:"twitter_uid"`
	WalletAddress    string `json:"wallet_address"`
	// RefBy is the referring user's telegram_uid.
	RefBy string `json:"ref_by"`
}
