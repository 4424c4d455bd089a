package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TelegramConfig enables the push notification channel when both fields are set.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabasePath string
	DigestTime   string
	ReminderPoll time.Duration
	LogLevel     string
	Telegram     TelegramConfig
}

// fileConfig is the YAML shape; durations travel as strings.
type fileConfig struct {
	DatabasePath string         `yaml:"database_path"`
	DigestTime   string         `yaml:"digest_time"`
	ReminderPoll string         `yaml:"reminder_poll"`
	LogLevel     string         `yaml:"log_level"`
	Telegram     TelegramConfig `yaml:"telegram"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variable overrides, in that precedence order. An empty path
// falls back to goaldesk.yaml when that file exists.
func Load(path string) (Config, error) {
	cfg := Config{
		DatabasePath: "goaldesk.db",
		DigestTime:   "08:00",
		ReminderPoll: time.Minute,
		LogLevel:     "info",
	}

	if path == "" {
		if _, err := os.Stat("goaldesk.yaml"); err == nil {
			path = "goaldesk.yaml"
		}
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	overrideFromEnv(&cfg)

	if _, err := parseClock(cfg.DigestTime); err != nil {
		return cfg, err
	}
	if cfg.ReminderPoll < time.Second {
		return cfg, fmt.Errorf("reminder poll %s is below one second", cfg.ReminderPoll)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.DigestTime != "" {
		cfg.DigestTime = fc.DigestTime
	}
	if fc.ReminderPoll != "" {
		d, err := time.ParseDuration(fc.ReminderPoll)
		if err != nil {
			return fmt.Errorf("invalid reminder_poll %q: %w", fc.ReminderPoll, err)
		}
		cfg.ReminderPoll = d
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.Telegram.Token != "" {
		cfg.Telegram.Token = fc.Telegram.Token
	}
	if fc.Telegram.ChatID != 0 {
		cfg.Telegram.ChatID = fc.Telegram.ChatID
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("GOALDESK_DB")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("GOALDESK_DIGEST_TIME")); v != "" {
		cfg.DigestTime = v
	}
	if v := strings.TrimSpace(os.Getenv("GOALDESK_REMINDER_POLL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReminderPoll = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("GOALDESK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
}

func parseClock(timeStr string) (time.Time, error) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid digest time %q, expected HH:MM", timeStr)
	}
	return t, nil
}
