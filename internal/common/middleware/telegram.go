package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"airdrop-backend/internal/common/config"
)

// TelegramInitData validates the Telegram Mini App init_data header and puts
// the parsed Telegram user on the context.
func TelegramInitData(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		initDataQuery := c.GetHeader("init_data")
		if initDataQuery == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		// Expiration check is disabled: the mini app keeps init_data for the
		// whole session.
		if err := initdata.Validate(initDataQuery, cfg.Telegram.BotToken, time.Duration(0)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
			return
		}

		parsedData, err := initdata.Parse(initDataQuery)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to parse init data"})
			return
		}

		c.Set("telegram_user", parsedData.User)
		c.Next()
	}
}

// RequireAdmin allows only Telegram users listed in ADMIN_IDS. Must run after
// TelegramInitData.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("telegram_user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		telegramUser, ok := user.(initdata.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user data format"})
			return
		}

		if !cfg.IsAdmin(telegramUser.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
