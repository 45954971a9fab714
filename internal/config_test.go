package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/inkwell/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port out of range", func(c *Config) { c.App.HTTP.Port = 70000 }, "app"},
		{"no content path", func(c *Config) { c.Content.Path = "" }, "content"},
		{"no extensions", func(c *Config) { c.Content.Extensions = nil }, "content"},
		{"zero words per minute", func(c *Config) { c.Content.WordsPerMinute = 0 }, "content"},
		{"no sqlite path", func(c *Config) { c.SQLite.Path = "" }, "sqlite"},
		{"autosave too fast", func(c *Config) { c.Leads.AutosaveInterval = time.Millisecond }, "leads"},
		{"blank required field", func(c *Config) { c.Leads.Forms["contact"] = []string{"name", ""} }, "leads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("err = %v, want prefix %q", err, tt.want)
			}
		})
	}
}

func TestConfig_LoadYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  log_level: debug
content:
  path: ./posts
  require_date: true
  defaults:
    author: Service Team
leads:
  forms:
    pm-visit: [site, technician]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Content.Path != "./posts" || !cfg.Content.RequireDate || cfg.Content.Defaults.Author != "Service Team" {
		t.Errorf("content = %+v", cfg.Content)
	}
	if cfg.Content.WordsPerMinute != 200 || cfg.App.HTTP.Port != 8080 {
		t.Error("unset values should keep defaults")
	}
	if len(cfg.Leads.Forms["pm-visit"]) != 2 {
		t.Errorf("forms = %v", cfg.Leads.Forms)
	}
}

func TestConfig_LoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[app.http]
port = 9000

[content]
path = "./posts"
words_per_minute = 250

[sse]
throttle = "500ms"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9000 || cfg.Content.WordsPerMinute != 250 || cfg.SSE.Throttle != 500*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
}
