package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"gridiron-chat/internal/loader"
	"gridiron-chat/internal/resolve"
)

// Config holds all gridiron-chat configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Matcher string        `yaml:"matcher" validate:"oneof=fuzzy substring"`
	Log     LoggingConfig `yaml:"log"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr" validate:"required"`
	PublicDir   string   `yaml:"public_dir"`
	CORSOrigins []string `yaml:"cors_origins" validate:"min=1"`
	MCPPath     string   `yaml:"mcp_path" validate:"required,startswith=/"`
	RequireAuth bool     `yaml:"require_auth"`
	AuthHeader  string   `yaml:"auth_header" validate:"required"`
	APIKey      string   `yaml:"api_key" validate:"required_if=RequireAuth true"`
}

// DataConfig names the CSV sources. Sources are loaded in list order and later
// files win field collisions.
type DataConfig struct {
	Dir     string   `yaml:"dir" validate:"required"`
	Sources []string `yaml:"sources" validate:"min=1,dive,required"`
	BaseURL string   `yaml:"base_url" validate:"omitempty,url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":3000",
			PublicDir:   "public",
			CORSOrigins: []string{"*"},
			MCPPath:     "/mcp",
			AuthHeader:  "X-API-Key",
		},
		Data: DataConfig{
			Dir:     "data",
			Sources: append([]string(nil), loader.DefaultSources...),
		},
		Matcher: resolve.KindFuzzy,
		Log: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config file on top of the defaults, then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRIDIRON_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GRIDIRON_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("GRIDIRON_MATCHER"); v != "" {
		c.Matcher = strings.ToLower(v)
	}
	if v := os.Getenv("GRIDIRON_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("GRIDIRON_API_KEY")); v != "" {
		c.Server.APIKey = v
		c.Server.RequireAuth = true
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
