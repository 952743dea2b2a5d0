package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenEnv overrides the stored token when set
const TokenEnv = "THREADHUB_TOKEN"

// Config holds all TUI configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Thread ThreadConfig `yaml:"thread"`
	UI     UIConfig     `yaml:"ui"`
}

// ServerConfig contains server connection settings
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// AuthConfig holds the bearer token used for writes
type AuthConfig struct {
	Token string `yaml:"token,omitempty"`
}

// ThreadConfig configures the discussion view
type ThreadConfig struct {
	PostID        string `yaml:"post_id"`
	PageSize      int    `yaml:"page_size"`
	ReplyPageSize int    `yaml:"reply_page_size"`
	AutoScroll    bool   `yaml:"auto_scroll"`
	HighlightMs   int    `yaml:"highlight_ms"`
}

// UIConfig for UI preferences
type UIConfig struct {
	Theme     string `yaml:"theme"`
	AltScreen bool   `yaml:"alt_screen"`
	// LogFile receives client logs; they are discarded when empty
	LogFile string `yaml:"log_file,omitempty"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Thread: ThreadConfig{
			PostID:        "welcome",
			PageSize:      20,
			ReplyPageSize: 10,
			AutoScroll:    true,
			HighlightMs:   2000,
		},
		UI: UIConfig{
			Theme:     "dracula",
			AltScreen: true,
		},
	}
}

// Load loads configuration from file, falling back to defaults. Values
// missing from the file keep their defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Auth.Token = token
	}
	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold a token
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ResolvePath returns configPath, the first existing standard location, or
// the default location when none exists yet
func ResolvePath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if found := findConfigFile(); found != "" {
		return found
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "threadhub-tui.yaml"
	}
	return filepath.Join(home, ".config", "threadhub", "tui.yaml")
}

// findConfigFile searches for config in standard locations
func findConfigFile() string {
	locations := []string{
		"./threadhub-tui.yaml",
		"./configs/tui.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "threadhub", "tui.yaml"),
			filepath.Join(home, ".threadhub-tui.yaml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// GetHTTPBaseURL returns the API base URL. Hosts other than localhost are
// assumed to sit behind TLS.
func (c *Config) GetHTTPBaseURL() string {
	if c.Server.BaseURL != "" {
		return c.Server.BaseURL
	}
	scheme := "http"
	if c.Server.Host != "localhost" && c.Server.Host != "127.0.0.1" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/api/v1", scheme, c.Server.Host, c.Server.Port)
}

// HighlightDuration returns how long a navigated-to comment stays highlighted
func (c *Config) HighlightDuration() time.Duration {
	return time.Duration(c.Thread.HighlightMs) * time.Millisecond
}
