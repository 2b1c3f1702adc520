package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Handicap      HandicapConfig      `yaml:"handicap"`
	Queue         QueueConfig         `yaml:"queue"`
	Inbox         InboxConfig         `yaml:"inbox"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL selects the in-memory event bus.
type NATSConfig struct {
	URL      string `yaml:"url"`
	NKeySeed string `yaml:"nkey_seed"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// HandicapConfig tunes the scoring engine.
type HandicapConfig struct {
	RequiredRounds    int  `yaml:"required_rounds"`
	IncludeIncomplete bool `yaml:"include_incomplete"`
	ToParDisplayFloor int  `yaml:"to_par_display_floor"`
}

// QueueConfig holds background job settings.
type QueueConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// InboxConfig configures the scorecard drop folder. An empty Dir disables it.
// Files are laid out as <dir>/<course-id>/<YYYY-MM-DD>[-suffix].<ext>.
type InboxConfig struct {
	Dir      string        `yaml:"dir"`
	Pattern  string        `yaml:"pattern"`
	TeeName  string        `yaml:"tee_name"`
	Debounce time.Duration `yaml:"debounce"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file.
// A .env file in the working directory is loaded first when present.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.HTTP.RateLimit = f
		}
	}
	if v := os.Getenv("HTTP_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateBurst = n
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("HANDICAP_REQUIRED_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Handicap.RequiredRounds = n
		}
	}
	if v := os.Getenv("HANDICAP_INCLUDE_INCOMPLETE"); v != "" {
		cfg.Handicap.IncludeIncomplete = v == "true"
	}
	if v := os.Getenv("HANDICAP_TO_PAR_DISPLAY_FLOOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Handicap.ToParDisplayFloor = n
		}
	}
	if v := os.Getenv("QUEUE_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.MaxWorkers = n
		}
	}
	if v := os.Getenv("INBOX_DIR"); v != "" {
		cfg.Inbox.Dir = v
	}
	if v := os.Getenv("INBOX_PATTERN"); v != "" {
		cfg.Inbox.Pattern = v
	}
	if v := os.Getenv("INBOX_TEE"); v != "" {
		cfg.Inbox.TeeName = v
	}
	if v := os.Getenv("INBOX_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Inbox.Debounce = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	// Load Postgres DSN
	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 10
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 20
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "fairway-bot"
	}
	if c.Handicap.RequiredRounds <= 0 {
		c.Handicap.RequiredRounds = 5
	}
	if c.Handicap.ToParDisplayFloor == 0 {
		c.Handicap.ToParDisplayFloor = -36
	}
	if c.Queue.MaxWorkers <= 0 {
		c.Queue.MaxWorkers = 5
	}
	if c.Inbox.Pattern == "" {
		c.Inbox.Pattern = "*/*.{csv,tsv,xlsx,xls}"
	}
	if c.Inbox.Debounce <= 0 {
		c.Inbox.Debounce = 500 * time.Millisecond
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "json"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
}

// RequestTimeout bounds a single API request.
func (c *Config) RequestTimeout() time.Duration {
	return 15 * time.Second
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
