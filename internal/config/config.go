package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// Missing required settings are fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromLookup builds the configuration from lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	required := func(key string) string {
		value, ok := lookup(key)
		if !ok || value == "" {
			missing = append(missing, key)
		}
		return value
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	var invalid error
	minutes := func(key string, fallback int) time.Duration {
		n, err := strconv.Atoi(optional(key, strconv.Itoa(fallback)))
		if err != nil || n <= 0 {
			invalid = fmt.Errorf("%s must be a positive number of minutes", key)
			return time.Duration(fallback) * time.Minute
		}
		return time.Duration(n) * time.Minute
	}
	flag := func(key string, fallback bool) bool {
		b, err := strconv.ParseBool(optional(key, strconv.FormatBool(fallback)))
		if err != nil {
			invalid = fmt.Errorf("%s must be a boolean", key)
			return fallback
		}
		return b
	}

	timeoutSeconds, err := strconv.Atoi(optional("COACH_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSeconds <= 0 {
		invalid = fmt.Errorf("COACH_TIMEOUT_SECONDS must be a positive number of seconds")
		timeoutSeconds = 10
	}

	cfg := Config{
		Port:          required("PORT"),
		CorsOrigins:   strings.Split(optional("CORS_ALLOWED_ORIGINS", "*"), ","),
		DBName:        optional("DB_NAME", "gamefinder.db"),
		MigrationsDir: optional("MIGRATIONS_DIR", "./migrations"),
		DryRun:        flag("DRY_RUN", false),
		CoachTimeout:  time.Duration(timeoutSeconds) * time.Second,
		Fumbbl: FumbblConfig{
			BaseURL:      required("FUMBBL_BASE_URL"),
			ClientID:     optional("FUMBBL_CLIENT_ID", ""),
			ClientSecret: optional("FUMBBL_CLIENT_SECRET", ""),
		},
		Slack: SlackConfig{
			Token:     optional("SLACK_BOT_TOKEN", ""),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		Blackbox: BlackboxConfig{
			Enabled: flag("BLACKBOX_ENABLED", true),
			Active:  minutes("BLACKBOX_ACTIVE_MINUTES", 5),
			Paused:  minutes("BLACKBOX_PAUSED_MINUTES", 10),
		},
		ProjectID: optional("GCP_PROJECT", ""),
	}

	if len(missing) > 0 {
		return cfg, fmt.Errorf("required environment variables not set: %v", missing)
	}
	return cfg, invalid
}
