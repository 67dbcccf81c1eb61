package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"airdrop-backend/internal/common/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client. The campaign only needs
// getChatMember, so no bot framework is pulled in.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

// ChatMember carries the subset of the Bot API chat member object we read.
type ChatMember struct {
	Status string `json:"status"`
}

func NewClient(token, chatID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		token:      token,
		chatID:     chatID,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(token, chatID, baseURL string, timeout time.Duration) *Client {
	c := NewClient(token, chatID, timeout)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// VerifyGroupMembership reports whether the Telegram user is currently a
// member of the configured campaign chat. Statuses member, administrator and
// creator all count as membership.
func (c *Client) VerifyGroupMembership(ctx context.Context, telegramUID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getChatMember", c.baseURL, c.token)
	params := url.Values{
		"chat_id": {c.chatID},
		"user_id": {telegramUID},
	}

	var result struct {
		Ok          bool       `json:"ok"`
		Description string     `json:"description,omitempty"`
		Result      ChatMember `json:"result"`
	}

	if err := c.makeRequest(ctx, endpoint, params, &result); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	if !result.Ok {
		return false, fmt.Errorf("telegram API error: %s", result.Description)
	}

	isMember := result.Result.Status == "member" ||
		result.Result.Status == "administrator" ||
		result.Result.Status == "creator"

	logger.Debug().
		Str("telegram_uid", telegramUID).
		Str("chat_id", c.chatID).
		Str("status", result.Result.Status).
		Bool("is_member", isMember).
		Msg("Membership check result")

	return isMember, nil
}

func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if len(params) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
