package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int

	// Subscription store configuration
	StoreBackend     string
	StorePath        string
	MaxSubscriptions int

	// Price feed configuration
	PriceAPIURL     string
	PriceAPITimeout time.Duration

	// Web Push (VAPID) configuration
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string

	// Endpoint secrets
	NotifySecret string
	CronSecret   string

	// Price-change detection
	ChangeThreshold float64
	NotifyCooldown  time.Duration
	CheckInterval   time.Duration

	// Rate limiting
	RateLimitMax     float64
	RateLimitRefill  float64
	RateLimitMaxKeys int

	// Optional Telegram broadcast channel
	TelegramBotToken string
	TelegramChatID   string

	// Shared cache polling
	PollInterval time.Duration
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development: getEnvAsBool("DEVELOPMENT", false),
		APIPort:     getEnvAsInt("API_PORT", 6532),

		StoreBackend:     getEnv("STORE_BACKEND", "file"),
		StorePath:        getEnv("STORE_PATH", "data/subscriptions.json"),
		MaxSubscriptions: getEnvAsInt("MAX_SUBSCRIPTIONS", 10000),

		PriceAPIURL:     getEnv("PRICE_API_URL", ""),
		PriceAPITimeout: getEnvAsDuration("PRICE_API_TIMEOUT", 30*time.Second),

		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: getEnv("VAPID_SUBSCRIBER", "mailto:admin@aurum.app"),

		NotifySecret: getEnv("NOTIFY_SECRET", ""),
		CronSecret:   getEnv("CRON_SECRET", ""),

		ChangeThreshold: getEnvAsFloat("CHANGE_THRESHOLD", 0.25),
		NotifyCooldown:  getEnvAsDuration("NOTIFY_COOLDOWN", 3*time.Hour),
		CheckInterval:   getEnvAsDuration("CHECK_INTERVAL", 0),

		RateLimitMax:     getEnvAsFloat("RATE_LIMIT_MAX", 30),
		RateLimitRefill:  getEnvAsFloat("RATE_LIMIT_REFILL", 30),
		RateLimitMaxKeys: getEnvAsInt("RATE_LIMIT_MAX_KEYS", 10000),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		PollInterval: getEnvAsDuration("POLL_INTERVAL", 60*time.Second),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.PriceAPIURL == "" {
		return fmt.Errorf("PRICE_API_URL is required")
	}

	if c.StoreBackend != "file" && c.StoreBackend != "bolt" {
		return fmt.Errorf("STORE_BACKEND must be \"file\" or \"bolt\", got %q", c.StoreBackend)
	}

	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required")
	}

	if c.ChangeThreshold <= 0 {
		return fmt.Errorf("CHANGE_THRESHOLD must be positive")
	}

	if c.NotifyCooldown <= 0 {
		return fmt.Errorf("NOTIFY_COOLDOWN must be positive")
	}

	// Secrets and push credentials may be omitted in development mode only.
	if !c.Development {
		if c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
			return fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
		}
		if c.NotifySecret == "" {
			return fmt.Errorf("NOTIFY_SECRET is required")
		}
		if c.CronSecret == "" {
			return fmt.Errorf("CRON_SECRET is required")
		}
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
