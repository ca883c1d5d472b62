package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Notification channel names accepted in NOTIFY_CHANNEL.
const (
	ChannelTelegram = "telegram"
	ChannelWebhook  = "webhook"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL string
	LogLevel    string
	Environment string

	NotifyChannel string // telegram or webhook
	TelegramToken string
	AlertChatID   int64 // operations chat receiving telegram alerts
	WebhookURL    string

	CronSpecBreachSweep    string // breaches-only sweep across all tenants
	CronSpecDailyReminders string // full reminder run
	CronSpecDailySchedule  string // scheduling pass for unscheduled records

	DispatchConcurrency int
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv never overrides variables already set in the process.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.NotifyChannel = strings.ToLower(os.Getenv("NOTIFY_CHANNEL"))
	if cfg.NotifyChannel == "" {
		cfg.NotifyChannel = ChannelWebhook
	}

	switch cfg.NotifyChannel {
	case ChannelTelegram:
		cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
		if cfg.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is not set (required for the telegram channel)")
		}
		chatIDStr := os.Getenv("ALERT_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("ALERT_CHAT_ID is not set (required for the telegram channel)")
		}
		var err error
		cfg.AlertChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ALERT_CHAT_ID: %w", err)
		}
	case ChannelWebhook:
		cfg.WebhookURL = os.Getenv("WEBHOOK_URL")
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is not set (required for the webhook channel)")
		}
	default:
		return nil, fmt.Errorf("unknown NOTIFY_CHANNEL: %q", cfg.NotifyChannel)
	}

	cfg.CronSpecBreachSweep = os.Getenv("CRON_SPEC_BREACH_SWEEP")
	if cfg.CronSpecBreachSweep == "" {
		cfg.CronSpecBreachSweep = "0 * * * *" // hourly, breach windows are short
	}
	cfg.CronSpecDailyReminders = os.Getenv("CRON_SPEC_DAILY_REMINDERS")
	if cfg.CronSpecDailyReminders == "" {
		cfg.CronSpecDailyReminders = "0 7 * * *"
	}
	cfg.CronSpecDailySchedule = os.Getenv("CRON_SPEC_DAILY_SCHEDULE")
	if cfg.CronSpecDailySchedule == "" {
		cfg.CronSpecDailySchedule = "30 6 * * *" // before the reminder run
	}

	concurrencyStr := os.Getenv("DISPATCH_CONCURRENCY")
	if concurrencyStr == "" {
		cfg.DispatchConcurrency = 8
	} else {
		n, err := strconv.Atoi(concurrencyStr)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid DISPATCH_CONCURRENCY: %q", concurrencyStr)
		}
		cfg.DispatchConcurrency = n
	}

	return cfg, nil
}
