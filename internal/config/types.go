package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	CorsOrigins   []string
	DryRun        bool
	CoachTimeout  time.Duration
	Fumbbl        FumbblConfig
	Slack         SlackConfig
	Turso         TursoConfig
	Blackbox      BlackboxConfig
	ProjectID     string
}

type FumbblConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether notifications can be sent.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type BlackboxConfig struct {
	Enabled bool
	Active  time.Duration
	Paused  time.Duration
}
