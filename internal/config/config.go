package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/schedule"
)

// Store backends.
const (
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Remote    RemoteConfig    `yaml:"remote"`
	Database  DatabaseConfig  `yaml:"database"`
	Drafts    DraftsConfig    `yaml:"drafts"`
	Editor    EditorConfig    `yaml:"editor"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// RemoteConfig points at the schedule REST API.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	SeedFile string `yaml:"seed_file"`
}

// DraftsConfig locates the local edit-session database.
type DraftsConfig struct {
	Dir         string        `yaml:"dir"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

type EditorConfig struct {
	DefaultReps int    `yaml:"default_reps"`
	DisplayUnit string `yaml:"display_unit"`
}

type AnalyticsConfig struct {
	CatalogFile string `yaml:"catalog_file"`
	PRMode      string `yaml:"pr_mode"`
	RecentLimit int    `yaml:"recent_limit"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Unit returns the parsed display unit. Only valid after Load.
func (e EditorConfig) Unit() schedule.Unit {
	u, err := schedule.ParseUnit(e.DisplayUnit)
	if err != nil {
		return schedule.Kilograms
	}
	return u
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTBOARD_ and underscore-separated paths:
//
//	LIFTBOARD_SERVER_HOST, LIFTBOARD_SERVER_PORT, LIFTBOARD_STORE_BACKEND,
//	LIFTBOARD_REMOTE_URL, LIFTBOARD_REMOTE_TOKEN, LIFTBOARD_REMOTE_TIMEOUT,
//	LIFTBOARD_DB_HOST, LIFTBOARD_DB_PORT, LIFTBOARD_DB_NAME,
//	LIFTBOARD_DB_USER, LIFTBOARD_DB_PASSWORD, LIFTBOARD_DB_SSLMODE,
//	LIFTBOARD_DRAFTS_DIR, LIFTBOARD_EDITOR_UNIT, LIFTBOARD_PR_MODE,
//	LIFTBOARD_TS_ENABLED, LIFTBOARD_TS_HOSTNAME, LIFTBOARD_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("LIFTBOARD_SERVER_HOST", &cfg.Server.Host)
	setInt("LIFTBOARD_SERVER_PORT", &cfg.Server.Port)
	setString("LIFTBOARD_STORE_BACKEND", &cfg.Store.Backend)
	setString("LIFTBOARD_REMOTE_URL", &cfg.Remote.BaseURL)
	setString("LIFTBOARD_REMOTE_TOKEN", &cfg.Remote.Token)
	if v := os.Getenv("LIFTBOARD_REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Remote.Timeout = d
		}
	}
	setString("LIFTBOARD_DB_HOST", &cfg.Database.Host)
	setInt("LIFTBOARD_DB_PORT", &cfg.Database.Port)
	setString("LIFTBOARD_DB_NAME", &cfg.Database.Name)
	setString("LIFTBOARD_DB_USER", &cfg.Database.User)
	setString("LIFTBOARD_DB_PASSWORD", &cfg.Database.Password)
	setString("LIFTBOARD_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("LIFTBOARD_DRAFTS_DIR", &cfg.Drafts.Dir)
	setString("LIFTBOARD_EDITOR_UNIT", &cfg.Editor.DisplayUnit)
	setString("LIFTBOARD_PR_MODE", &cfg.Analytics.PRMode)
	if v := os.Getenv("LIFTBOARD_TS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString("LIFTBOARD_TS_HOSTNAME", &cfg.Tailscale.Hostname)
	setString("LIFTBOARD_AUTH_API_KEY", &cfg.Auth.APIKey)
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendRemote
	}
	if cfg.Drafts.Dir == "" {
		cfg.Drafts.Dir = "data"
	}
	if cfg.Drafts.IdleTimeout == 0 {
		cfg.Drafts.IdleTimeout = 24 * time.Hour
	}
	if cfg.Editor.DefaultReps == 0 {
		cfg.Editor.DefaultReps = schedule.DefaultReps
	}
	if cfg.Editor.DisplayUnit == "" {
		cfg.Editor.DisplayUnit = string(schedule.Kilograms)
	}
	if cfg.Analytics.PRMode == "" {
		cfg.Analytics.PRMode = string(analytics.PRRandom)
	}
	if cfg.Analytics.RecentLimit == 0 {
		cfg.Analytics.RecentLimit = analytics.DefaultRecentLimit
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "liftboard"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Store.Backend {
	case BackendRemote:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.base_url is required for the remote backend")
		}
		if !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
			return fmt.Errorf("remote.base_url must be an http(s) URL")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendRemote, BackendPostgres, c.Store.Backend)
	}
	if c.Editor.DefaultReps < 0 {
		return fmt.Errorf("editor.default_reps must not be negative")
	}
	if _, err := schedule.ParseUnit(c.Editor.DisplayUnit); err != nil {
		return fmt.Errorf("editor.display_unit: %w", err)
	}
	switch analytics.PRMode(c.Analytics.PRMode) {
	case analytics.PRRandom, analytics.PRRanked:
	default:
		return fmt.Errorf("analytics.pr_mode must be %q or %q", analytics.PRRandom, analytics.PRRanked)
	}
	if c.Analytics.RecentLimit < 0 {
		return fmt.Errorf("analytics.recent_limit must not be negative")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
