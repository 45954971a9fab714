package internal

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/inkwell/internal/blog"
	"github.com/starford/inkwell/internal/leads"
	"github.com/starford/inkwell/internal/readtime"
	"github.com/starford/inkwell/internal/sse"
	"github.com/starford/inkwell/internal/storage"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app" toml:"app"`
	Content ContentConfig     `yaml:"content" toml:"content"`
	SQLite  SQLiteConfig      `yaml:"sqlite" toml:"sqlite"`
	Leads   LeadsConfig       `yaml:"leads" toml:"leads"`
	SSE     SSEConfig         `yaml:"sse" toml:"sse"`
	Watch   WatchConfig       `yaml:"watch" toml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := c.Leads.Validate(); err != nil {
		return fmt.Errorf("leads: %w", err)
	}
	return c.SSE.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig `yaml:"http" toml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" toml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig describes where posts live and how they are assembled.
type ContentConfig struct {
	Path           string         `yaml:"path" toml:"path"`
	AssetsPath     string         `yaml:"assets_path" toml:"assets_path"`
	Extensions     []string       `yaml:"extensions" toml:"extensions"`
	WordsPerMinute int            `yaml:"words_per_minute" toml:"words_per_minute"`
	Workers        int            `yaml:"workers" toml:"workers"`
	RequireDate    bool           `yaml:"require_date" toml:"require_date"`
	Defaults       DefaultsConfig `yaml:"defaults" toml:"defaults"`
}

// DefaultsConfig overrides the attribute values used for posts that do not
// author them. Empty values keep the built-in defaults.
type DefaultsConfig struct {
	Title    string `yaml:"title" toml:"title"`
	Author   string `yaml:"author" toml:"author"`
	Category string `yaml:"category" toml:"category"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Extensions, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.WordsPerMinute, validation.Required, validation.Min(1)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(256)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LeadsConfig configures the lead-capture forms: the required fields of
// each form and how often client drafts are auto-saved.
type LeadsConfig struct {
	AutosaveInterval time.Duration       `yaml:"autosave_interval" toml:"autosave_interval"`
	Forms            map[string][]string `yaml:"forms" toml:"forms"`
}

// Validate validates the leads configuration.
func (c *LeadsConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.AutosaveInterval, validation.Required, validation.Min(time.Second)),
	); err != nil {
		return err
	}
	for name, fields := range c.Forms {
		if name == "" {
			return fmt.Errorf("forms: empty form name")
		}
		if err := validation.Validate(fields, validation.Each(validation.Required)); err != nil {
			return fmt.Errorf("forms: %s: %w", name, err)
		}
	}
	return nil
}

// SSEConfig configures the event stream.
type SSEConfig struct {
	Throttle time.Duration `yaml:"throttle" toml:"throttle"`
}

// Validate validates the SSE configuration.
func (c *SSEConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// WatchConfig toggles the content directory watcher.
type WatchConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path:           "./content/blog",
			AssetsPath:     "./public/assets",
			Extensions:     slices.Clone(storage.DefaultExtensions),
			WordsPerMinute: readtime.DefaultWordsPerMinute,
			Workers:        blog.DefaultWorkers,
		},
		SQLite: SQLiteConfig{
			Path: "./inkwell.db",
		},
		Leads: LeadsConfig{
			AutosaveInterval: leads.DefaultAutoSaveInterval,
			Forms: map[string][]string{
				"contact": {"name", "phone", "message"},
			},
		},
		SSE: SSEConfig{
			Throttle: sse.DefaultThrottle,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}
