package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultHourlyQuota = 60
	defaultSchedule    = "@every 1h"
	defaultListenAddr  = ":8714"
	defaultStorePath   = "jobsift.db"
)

// Config is the root configuration for the jobsift aggregator.
type Config struct {
	Schedule     string
	HTTPTimeout  time.Duration
	Sources      []SourceConfig
	Filters      FilterConfig
	Store        StoreConfig
	Notification NotificationConfig
	HTTP         HTTPConfig
}

// SourceConfig describes one registered source. Type selects the scraper
// implementation; the remaining fields are per-type.
type SourceConfig struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"` // greenhouse, lever, usajobs, mcp
	Enabled     bool   `yaml:"enabled"`
	HourlyQuota int    `yaml:"hourly_quota"`

	// ATS boards (greenhouse, lever).
	Company    string `yaml:"company"`
	BoardToken string `yaml:"board_token"`

	// usajobs.
	APIKey    string `yaml:"api_key"`
	UserAgent string `yaml:"user_agent"`
	Keyword   string `yaml:"keyword"`
	Location  string `yaml:"location"`

	// mcp.
	Endpoint string `yaml:"endpoint"`
	Tool     string `yaml:"tool"`
}

// FilterConfig holds keyword and location filter settings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
	RemoteOnly           bool     `yaml:"remote_only"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "sqlite" (default) or "postgres"
	Path    string `yaml:"path"`    // sqlite file path
	DSN     string `yaml:"dsn"`     // postgres connection string
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// rawConfig is used for YAML unmarshaling (durations as strings).
type rawConfig struct {
	Schedule     string             `yaml:"schedule"`
	HTTPTimeout  string             `yaml:"http_timeout"`
	Sources      []SourceConfig     `yaml:"sources"`
	Filters      FilterConfig       `yaml:"filters"`
	Store        StoreConfig        `yaml:"store"`
	Notification NotificationConfig `yaml:"notification"`
	HTTP         HTTPConfig         `yaml:"http"`
}

// Load reads and parses the YAML config file at path, expands environment
// variables, applies defaults, validates, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables so secrets stay out of the file.
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	httpTimeout := 30 * time.Second
	if raw.HTTPTimeout != "" {
		httpTimeout, err = time.ParseDuration(raw.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout %q: %w", raw.HTTPTimeout, err)
		}
	}

	cfg := &Config{
		Schedule:     raw.Schedule,
		HTTPTimeout:  httpTimeout,
		Sources:      raw.Sources,
		Filters:      raw.Filters,
		Store:        raw.Store,
		Notification: raw.Notification,
		HTTP:         raw.HTTP,
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Schedule == "" {
		cfg.Schedule = defaultSchedule
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}
	if cfg.HTTP.Listen == "" {
		cfg.HTTP.Listen = defaultListenAddr
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].HourlyQuota <= 0 {
			cfg.Sources[i].HourlyQuota = defaultHourlyQuota
		}
	}
}

func validate(cfg *Config) error {
	enabled := 0
	seen := make(map[string]bool)
	for _, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("every source needs a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true

		switch s.Type {
		case "greenhouse", "lever":
			if s.BoardToken == "" {
				return fmt.Errorf("source %q: board_token is required for %s", s.Name, s.Type)
			}
			if s.Company == "" {
				return fmt.Errorf("source %q: company is required for %s", s.Name, s.Type)
			}
		case "usajobs":
			if s.Keyword == "" {
				return fmt.Errorf("source %q: keyword is required for usajobs", s.Name)
			}
		case "mcp":
			if s.Endpoint == "" {
				return fmt.Errorf("source %q: endpoint is required for mcp", s.Name)
			}
		default:
			return fmt.Errorf("source %q: unknown type %q", s.Name, s.Type)
		}

		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Store.Backend {
	case "sqlite":
	case "postgres":
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required when backend is \"postgres\"")
		}
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}
