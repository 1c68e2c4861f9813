// Package config loads bot configuration from environment variables. A .env
// file, when present, is layered in by main before Load runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"homeworkbot/internal/domain/user"
)

// Config holds everything the bot needs at startup.
type Config struct {
	BotToken     string
	DBPath       string
	HealthAddr   string
	AdminChatIDs []int64 // recipients of admin-request prompts
	MinGrade     int
	MaxGrade     int
	SessionIdle  time.Duration
	Env          string
}

// ErrMissingToken is returned when BOT_TOKEN is not set.
var ErrMissingToken = errors.New("BOT_TOKEN is required")

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		BotToken:   os.Getenv("BOT_TOKEN"),
		DBPath:     envOrDefault("BOT_DB_PATH", "homeworkbot.db"),
		HealthAddr: ":" + envOrDefault("PORT", "8080"),
		Env:        envOrDefault("BOT_ENV", "development"),
	}
	if cfg.BotToken == "" {
		return Config{}, ErrMissingToken
	}

	ids, err := parseChatIDs(os.Getenv("BOT_ADMIN_CHAT_IDS"))
	if err != nil {
		return Config{}, err
	}
	cfg.AdminChatIDs = ids

	cfg.MinGrade, err = envOrDefaultInt("BOT_CLASS_MIN_GRADE", user.DefaultMinGrade)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxGrade, err = envOrDefaultInt("BOT_CLASS_MAX_GRADE", user.DefaultMaxGrade)
	if err != nil {
		return Config{}, err
	}
	if cfg.MinGrade > cfg.MaxGrade {
		return Config{}, fmt.Errorf("grade range inverted: %d > %d", cfg.MinGrade, cfg.MaxGrade)
	}

	idleMinutes, err := envOrDefaultInt("BOT_SESSION_IDLE_MINUTES", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionIdle = time.Duration(idleMinutes) * time.Minute

	return cfg, nil
}

// parseChatIDs splits a comma-separated list of Telegram chat ids.
func parseChatIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BOT_ADMIN_CHAT_IDS: bad chat id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return v, nil
}
