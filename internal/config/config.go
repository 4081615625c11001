package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rghosal/cvpilot/internal/model"
)

// Config is the root configuration for cvpilot.
type Config struct {
	Server       ServerConfig
	AI           AIConfig
	Limits       LimitsConfig
	Links        []model.ContactLink
	Notification NotificationConfig
	History      HistoryConfig
}

// ServerConfig holds the web UI settings.
type ServerConfig struct {
	Addr string
}

// AIConfig controls the completion provider.
type AIConfig struct {
	BaseURL    string        // defaults to https://api.openai.com/v1
	Model      string        // e.g. "gpt-4o-mini"
	APIKey     string        // expanded from env var by Load
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // transient transport retries, default 0
}

// LimitsConfig holds the input and output bounds enforced by the pipeline.
type LimitsConfig struct {
	MinChars int // minimum input length per field
	MaxChars int // maximum input length per field
	MaxWords int // adapted CV word budget
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "webhook"
	WebhookURL string `yaml:"webhook_url"` // required if type is "webhook"
}

// HistoryConfig controls the generation-history store.
type HistoryConfig struct {
	Path      string
	Retention time.Duration
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Server       rawServerConfig    `yaml:"server"`
	AI           rawAIConfig        `yaml:"ai"`
	Limits       rawLimitsConfig    `yaml:"limits"`
	Links        []rawLink          `yaml:"links"`
	Notification NotificationConfig `yaml:"notification"`
	History      rawHistoryConfig   `yaml:"history"`
}

type rawServerConfig struct {
	Addr string `yaml:"addr"`
}

type rawAIConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

type rawLimitsConfig struct {
	MinChars int `yaml:"min_chars"`
	MaxChars int `yaml:"max_chars"`
	MaxWords int `yaml:"max_words"`
}

type rawLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type rawHistoryConfig struct {
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	aiTimeout := 90 * time.Second // default
	if raw.AI.Timeout != "" {
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultOpenAIBaseURL
	}

	addr := raw.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	limits := LimitsConfig{MinChars: 50, MaxChars: 10000, MaxWords: 700}
	if raw.Limits.MinChars > 0 {
		limits.MinChars = raw.Limits.MinChars
	}
	if raw.Limits.MaxChars > 0 {
		limits.MaxChars = raw.Limits.MaxChars
	}
	if raw.Limits.MaxWords > 0 {
		limits.MaxWords = raw.Limits.MaxWords
	}

	historyPath := raw.History.Path
	if historyPath == "" {
		historyPath = "cvpilot.db"
	}
	retention := 30 * 24 * time.Hour // default: 30 days
	if raw.History.Retention != "" {
		retention, err = time.ParseDuration(raw.History.Retention)
		if err != nil {
			return nil, fmt.Errorf("parse history.retention %q: %w", raw.History.Retention, err)
		}
	}

	links := make([]model.ContactLink, 0, len(raw.Links))
	for _, l := range raw.Links {
		links = append(links, model.ContactLink{Label: l.Label, URL: l.URL})
	}

	notif := raw.Notification
	if notif.Type == "" {
		notif.Type = "log"
	}

	cfg := &Config{
		Server: ServerConfig{Addr: addr},
		AI: AIConfig{
			BaseURL:    aiBaseURL,
			Model:      raw.AI.Model,
			APIKey:     raw.AI.APIKey,
			Timeout:    aiTimeout,
			MaxRetries: raw.AI.MaxRetries,
		},
		Limits:       limits,
		Links:        links,
		Notification: notif,
		History: HistoryConfig{
			Path:      historyPath,
			Retention: retention,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required")
	}
	if cfg.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}

	if cfg.Limits.MinChars < 1 || cfg.Limits.MinChars >= cfg.Limits.MaxChars {
		return fmt.Errorf("limits: min_chars must be in [1, max_chars), got min=%d max=%d",
			cfg.Limits.MinChars, cfg.Limits.MaxChars)
	}
	if cfg.Limits.MaxWords < 1 {
		return fmt.Errorf("limits.max_words must be positive, got %d", cfg.Limits.MaxWords)
	}

	for _, l := range cfg.Links {
		if l.Label == "" {
			return fmt.Errorf("links: every entry needs a label")
		}
		u, err := url.Parse(l.URL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("links: %q is not an absolute http(s) URL", l.URL)
		}
	}

	switch cfg.Notification.Type {
	case "log":
	case "webhook":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"webhook\"")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"webhook\", got %q", cfg.Notification.Type)
	}

	if cfg.History.Retention <= 0 {
		return fmt.Errorf("history.retention must be positive, got %v", cfg.History.Retention)
	}

	return nil
}
