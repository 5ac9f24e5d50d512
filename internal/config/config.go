// Package config loads glnotes settings.
//
// Precedence, lowest first: built-in defaults, the YAML file, a .env file in
// the working directory, GLNOTES_* environment variables, command-line flags
// (applied by the caller before Validate).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "GLNOTES_"

// Config holds every tunable of the client.
type Config struct {
	BaseURL          string        `yaml:"base_url"`
	DataDir          string        `yaml:"data_dir"`
	LogLevel         string        `yaml:"log_level"`
	LogFiles         int           `yaml:"log_files"`
	PageSize         int           `yaml:"page_size"`
	DownloadPageSize int           `yaml:"download_page_size"`
	BatchSize        int           `yaml:"batch_size"`
	Timeout          time.Duration `yaml:"timeout"`
	RememberSession  bool          `yaml:"remember_session"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:          "https://www.churchofjesuschrist.org",
		DataDir:          "./data",
		LogLevel:         "info",
		LogFiles:         5,
		PageSize:         50,
		DownloadPageSize: 1000,
		BatchSize:        5,
		Timeout:          30 * time.Second,
		RememberSession:  true,
		SessionTTL:       12 * time.Hour,
	}
}

// Dir is the per-user config directory, also home to logs and the remembered session.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "glnotes")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "glnotes")
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
		return nil
	}

	str("BASE_URL", &c.BaseURL)
	str("DATA_DIR", &c.DataDir)
	str("LOG_LEVEL", &c.LogLevel)
	if v, ok := os.LookupEnv(envPrefix + "REMEMBER_SESSION"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREMEMBER_SESSION: %w", envPrefix, err)
		}
		c.RememberSession = b
	}
	return errors.Join(
		num("LOG_FILES", &c.LogFiles),
		num("PAGE_SIZE", &c.PageSize),
		num("DOWNLOAD_PAGE_SIZE", &c.DownloadPageSize),
		num("BATCH_SIZE", &c.BatchSize),
		dur("TIMEOUT", &c.Timeout),
		dur("SESSION_TTL", &c.SessionTTL),
	)
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFiles, validation.Min(1)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.DownloadPageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.SessionTTL, validation.Required),
	)
}
