package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
		User     string `env:"POSTGRES_USER" envDefault:"postgres"`
		Password string `env:"POSTGRES_PASSWORD" envDefault:""`
		Database string `env:"POSTGRES_DB" envDefault:"airdrop"`
		SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	Redis struct {
		Host     string        `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int           `env:"REDIS_PORT" envDefault:"6379"`
		Password string        `env:"REDIS_PASSWORD" envDefault:""`
		DB       int           `env:"REDIS_DB" envDefault:"0"`
		UserTTL  time.Duration `env:"REDIS_USER_TTL" envDefault:"5m"`
	}

	Telegram struct {
		BotToken string        `env:"BOT_TOKEN,required"`
		ChatID   string        `env:"TELEGRAM_CHAT_ID,required"`
		Timeout  time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"10s"`
		AdminIDs []int64       `env:"ADMIN_IDS" envSeparator:","`
	}

	Campaign struct {
		// Points credited to the referrer for each referred signup.
		ReferralBonus int64 `env:"REFERRAL_BONUS" envDefault:"10000"`
	}
}

func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// GetDSN builds the lib/pq connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.Database, c.Postgres.SSLMode)
}

// RedisAddr returns the host:port pair for go-redis.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsAdmin reports whether the given Telegram user ID is in ADMIN_IDS.
func (c *Config) IsAdmin(id int64) bool {
	for _, adminID := range c.Telegram.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}
