// notesbot/config/config.go

// Package config loads notesbot settings from .env, an optional yaml file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vinizap/lumi/notesbot/store"
)

const DefaultFile = "notesbot.yaml"

type Config struct {
	Bot    BotConfig    `yaml:"bot"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type BotConfig struct {
	// Token is the Telegram bot credential.
	Token string `yaml:"token"`
	// APIBaseURL is the notes collection endpoint, e.g. http://localhost:8000/notes/.
	APIBaseURL string `yaml:"api_base_url"`
	// APITimeout bounds each store request. Zero leaves the transport default.
	APITimeout time.Duration `yaml:"api_timeout"`
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int  `yaml:"poll_timeout"`
	Debug       bool `yaml:"debug"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	Prefix      string `yaml:"prefix"`
	Backend     string `yaml:"backend"`
	Root        string `yaml:"root"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Bot: BotConfig{
			APITimeout:  30 * time.Second,
			PollTimeout: 60,
		},
		Server: ServerConfig{
			Addr:    ":8000",
			Prefix:  "/notes",
			Backend: store.BackendMemory,
			Root:    "./notes",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. path names a yaml file; when empty,
// NOTESBOT_CONFIG and then DefaultFile are tried, and a missing default
// file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("NOTESBOT_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultFile
		}
	}
	if err := loadFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("API_TOKEN", &cfg.Bot.Token)
	setString("API_BASE_URL", &cfg.Bot.APIBaseURL)
	setString("NOTESBOT_LOG_LEVEL", &cfg.Log.Level)
	setString("NOTESBOT_LOG_FORMAT", &cfg.Log.Format)
	setString("NOTESBOT_ADDR", &cfg.Server.Addr)
	setString("NOTESBOT_PREFIX", &cfg.Server.Prefix)
	setString("NOTESBOT_BACKEND", &cfg.Server.Backend)
	setString("NOTESBOT_ROOT", &cfg.Server.Root)
	setString("NOTESBOT_POSTGRES_DSN", &cfg.Server.PostgresDSN)

	if v, ok := os.LookupEnv("NOTESBOT_API_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("NOTESBOT_API_TIMEOUT: %w", err)
		}
		cfg.Bot.APITimeout = d
	}
	if v, ok := os.LookupEnv("NOTESBOT_POLL_TIMEOUT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NOTESBOT_POLL_TIMEOUT: %w", err)
		}
		cfg.Bot.PollTimeout = n
	}
	if v, ok := os.LookupEnv("NOTESBOT_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NOTESBOT_DEBUG: %w", err)
		}
		cfg.Bot.Debug = b
	}
	return nil
}

// ValidateBot checks what the bot needs before it may start.
func (c *Config) ValidateBot() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("API_TOKEN is not set"))
	}
	if c.Bot.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is not set"))
	} else if u, err := url.Parse(c.Bot.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL %q is not an absolute http(s) URL", c.Bot.APIBaseURL))
	}
	if c.Bot.APITimeout < 0 {
		errs = append(errs, errors.New("api timeout must not be negative"))
	}
	if c.Bot.PollTimeout < 0 {
		errs = append(errs, errors.New("poll timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// ValidateServer checks the settings of the bundled notes store.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is empty"))
	}
	switch c.Server.Backend {
	case store.BackendMemory:
	case store.BackendFiles:
		if c.Server.Root == "" {
			errs = append(errs, errors.New("file backend needs NOTESBOT_ROOT"))
		}
	case store.BackendPostgres:
		if c.Server.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres backend needs NOTESBOT_POSTGRES_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Server.Backend))
	}
	return errors.Join(errs...)
}
