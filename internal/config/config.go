package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// UI front ends
const (
	UITerminal = "tui"
	UIWeb      = "web"
)

type Config struct {
	UI           string    `yaml:"ui" env:"UI" env-default:"tui"`
	HTTPAddr     string    `yaml:"http-addr" env:"HTTP_ADDR" env-default:"127.0.0.1:8080"`
	MoveLogPath  string    `yaml:"move-log-path" env:"MOVE_LOG_PATH" env-default:"tictactoelog.txt"`
	LogLevel     string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	DebugLogPath string    `yaml:"debug-log-path" env:"DEBUG_LOG_PATH"`
	SessionID    string    `yaml:"session-id" env:"SESSION_ID"`
	Redis        Redis     `yaml:"redis"`
	Telemetry    Telemetry `yaml:"telemetry"`
}

type Redis struct {
	Addr string        `yaml:"addr" env:"REDIS_ADDR"`
	TTL  time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

type Telemetry struct {
	Enabled        bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint       string `yaml:"endpoint" env:"OTEL_ENDPOINT" env-default:"localhost:4317"`
	ServiceName    string `yaml:"service-name" env:"SERVICE_NAME" env-default:"tic-tac-toe"`
	ServiceVersion string `yaml:"service-version" env:"SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads the YAML file at path, if any, then the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the struct tags cannot express.
func (c *Config) Validate() error {
	switch c.UI {
	case UITerminal, UIWeb:
	default:
		return fmt.Errorf("unknown ui %q, want %q or %q", c.UI, UITerminal, UIWeb)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MoveLogPath == "" {
		return fmt.Errorf("move log path must not be empty")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
