// Package config loads the notepdf YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/notepdf/internal/auth"
	"github.com/gompdf/notepdf/internal/notes"
	"github.com/gompdf/notepdf/internal/res"
	"github.com/gompdf/notepdf/internal/text"
	"github.com/gompdf/notepdf/pkg/api"
)

// EnvTokenSecret overrides auth.token_secret when set
const EnvTokenSecret = "NOTEPDF_TOKEN_SECRET"

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Database notes.Conf   `yaml:"database"`
	Render   RenderConfig `yaml:"render"`
	Auth     AuthConfig   `yaml:"auth"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RenderConfig configures PDF output.
type RenderConfig struct {
	FontPath    string   `yaml:"font_path"`
	FontDirs    []string `yaml:"font_dirs"`
	WrapWidth   int      `yaml:"wrap_width"`
	WrapMode    string   `yaml:"wrap_mode"`   // char or display
	EmptyLines  string   `yaml:"empty_lines"` // collapse or keep
	TitlePrefix string   `yaml:"title_prefix"`
	Debug       bool     `yaml:"debug"`
}

// AuthConfig configures logins and sessions.
type AuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	Users        []auth.User    `yaml:"users"`
	TokenSecret  string         `yaml:"token_secret"`
	SessionTTL   time.Duration  `yaml:"session_ttl"`
	SessionStore string         `yaml:"session_store"` // memory or redis
	Redis        auth.RedisConf `yaml:"redis"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: notes.Conf{
			Driver: "sqlite",
			Path:   notes.DefaultPath,
		},
		Render: RenderConfig{
			FontPath:    res.DefaultFontFile,
			FontDirs:    []string{"fonts"},
			WrapWidth:   text.DefaultWrapWidth,
			WrapMode:    string(text.WrapModeChars),
			EmptyLines:  text.CollapseEmpty.String(),
			TitlePrefix: "PTA",
		},
		Auth: AuthConfig{
			Enabled:      false,
			SessionTTL:   auth.DefaultSessionTTL,
			SessionStore: "memory",
			Redis: auth.RedisConf{
				Addr:   "localhost:6379",
				Prefix: "notepdf",
			},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// users and secrets live here
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Default().Save(path)
}

func (c *Config) applyEnv() {
	if secret := os.Getenv(EnvTokenSecret); secret != "" {
		c.Auth.TokenSecret = secret
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch text.WrapMode(strings.ToLower(c.Render.WrapMode)) {
	case text.WrapModeChars, text.WrapModeDisplay, "":
	default:
		return fmt.Errorf("invalid render.wrap_mode %q (want char or display)", c.Render.WrapMode)
	}
	switch strings.ToLower(c.Render.EmptyLines) {
	case "collapse", "keep", "":
	default:
		return fmt.Errorf("invalid render.empty_lines %q (want collapse or keep)", c.Render.EmptyLines)
	}
	if c.Render.WrapWidth < 0 {
		return fmt.Errorf("invalid render.wrap_width %d", c.Render.WrapWidth)
	}

	switch c.Auth.SessionStore {
	case "memory", "redis", "":
	default:
		return fmt.Errorf("invalid auth.session_store %q (want memory or redis)", c.Auth.SessionStore)
	}
	if c.Auth.Enabled {
		if c.Auth.TokenSecret == "" {
			return fmt.Errorf("auth.token_secret is required when auth is enabled (or set %s)", EnvTokenSecret)
		}
		if len(c.Auth.Users) == 0 {
			return errors.New("auth.users must list at least one user when auth is enabled")
		}
	}
	return nil
}

// Mode returns the configured wrap mode
func (r RenderConfig) Mode() text.WrapMode {
	return text.WrapMode(strings.ToLower(r.WrapMode))
}

// EmptyLinePolicy returns the configured blank paragraph policy
func (r RenderConfig) EmptyLinePolicy() text.EmptyLinePolicy {
	return text.ParseEmptyLinePolicy(r.EmptyLines)
}

// ManagerConfig converts the auth section for auth.NewManager
func (a AuthConfig) ManagerConfig() auth.Config {
	return auth.Config{
		Users:  a.Users,
		Secret: []byte(a.TokenSecret),
		TTL:    a.SessionTTL,
	}
}

// RendererOptions converts the render section into renderer options
func (r RenderConfig) RendererOptions() []api.Option {
	opts := []api.Option{
		api.WithFontPath(r.FontPath),
		api.WithWrapMode(r.Mode()),
		api.WithEmptyLines(r.EmptyLinePolicy()),
		api.WithTitlePrefix(r.TitlePrefix),
		api.WithDebug(r.Debug),
	}
	if r.WrapWidth > 0 {
		opts = append(opts, api.WithWrapWidth(r.WrapWidth))
	}
	for _, dir := range r.FontDirs {
		opts = append(opts, api.WithFontDirectory(dir))
	}
	return opts
}
