// Package config handles the XDG configuration directory, the config file
// and the stored credentials.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskhub"

	// ConfigFile holds repository and taxonomy settings.
	ConfigFile = "config.yaml"

	// TokenFile holds the GitHub credential.
	TokenFile = "token"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// GoogleTokenFile is the stored Google OAuth token filename.
	GoogleTokenFile = "google_token.json"

	// TokenEnv overrides the stored GitHub credential.
	TokenEnv = "TASKHUB_TOKEN"

	// DefaultTimeout bounds each remote request.
	DefaultTimeout = 30 * time.Second
)

// Settings is the content of config.yaml.
type Settings struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Path   string `yaml:"path"`
	Branch string `yaml:"branch"`
	APIURL string `yaml:"api_url,omitempty"`

	// Seed taxonomy for a document that has none.
	DefaultProjects []string            `yaml:"default_projects"`
	DefaultThemes   map[string][]string `yaml:"default_themes"`

	// Points given to a new task whose text names none. Zero leaves them unset.
	DefaultPoints int `yaml:"default_points"`

	// Repository holding the issues linked to tasks. Defaults to Owner/Repo.
	IssueOwner string `yaml:"issue_owner,omitempty"`
	IssueRepo  string `yaml:"issue_repo,omitempty"`

	// Google Tasks list to mirror into. Empty means the default list.
	MirrorList string `yaml:"mirror_list,omitempty"`

	Timeout time.Duration `yaml:"timeout"`
}

// DefaultSettings returns the settings used when config.yaml is absent or
// leaves a field out.
func DefaultSettings() Settings {
	return Settings{
		Repo:            "myfiles",
		Path:            "task-data.json",
		Branch:          "main",
		DefaultProjects: []string{"Personal", "Work", "Health", "Home"},
		DefaultThemes: map[string][]string{
			"Work":     {"Q4 Goals", "Client Projects"},
			"Personal": {"Self Improvement", "Hobbies", "Finances"},
			"Health":   {"Fitness", "Nutrition"},
			"Home":     {"Maintenance", "Organization"},
		},
		DefaultPoints: 10,
		Timeout:       DefaultTimeout,
	}
}

// IssueRepository returns the owner and name of the repository holding
// linked issues.
func (s Settings) IssueRepository() (owner, repo string) {
	owner, repo = s.IssueOwner, s.IssueRepo
	if owner == "" {
		owner = s.Owner
	}
	if repo == "" {
		repo = s.Repo
	}
	return owner, repo
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings Settings

	// Logger is never nil.
	Logger *slog.Logger
}

// New creates a Config for configDir and reads config.yaml from it.
// If configDir is empty, uses XDG_CONFIG_HOME/taskhub or $HOME/.config/taskhub.
// A missing config.yaml yields the defaults.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:      dir,
		Settings: DefaultSettings(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	data, err := os.ReadFile(cfg.ConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	// yaml merges into a non-nil map; a configured theme map replaces the
	// default one instead.
	cfg.Settings.DefaultThemes = nil
	if err := yaml.Unmarshal(data, &cfg.Settings); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if cfg.Settings.DefaultThemes == nil {
		cfg.Settings.DefaultThemes = DefaultSettings().DefaultThemes
	}
	if cfg.Settings.Timeout <= 0 {
		cfg.Settings.Timeout = DefaultTimeout
	}
	return cfg, nil
}

// NewLogger returns a text logger on w at Debug level when debug is set and
// Warn otherwise.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// Save writes the current settings to config.yaml.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return err
	}
	return c.writeFile(ConfigFile, data, 0600)
}

// HTTPClient returns the base HTTP client for remote calls.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.Settings.Timeout}
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// TokenPath returns the path to the stored GitHub credential.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// Token returns the GitHub credential, or "" when none is stored. The
// TASKHUB_TOKEN environment variable takes precedence over the file.
func (c *Config) Token() (string, error) {
	if tok := os.Getenv(TokenEnv); tok != "" {
		return tok, nil
	}
	data, err := os.ReadFile(c.TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SetToken stores the GitHub credential with mode 0600.
func (c *Config) SetToken(token string) error {
	return c.writeFile(TokenFile, []byte(token+"\n"), 0600)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// OAuthClientPath returns the path to the Google OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// GoogleTokenPath returns the path to the stored Google OAuth token file.
func (c *Config) GoogleTokenPath() string {
	return filepath.Join(c.Dir, GoogleTokenFile)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasGoogleToken checks if the Google token file exists.
func (c *Config) HasGoogleToken() bool {
	_, err := os.Stat(c.GoogleTokenPath())
	return err == nil
}

// WriteGoogleToken stores the Google OAuth token with mode 0600.
func (c *Config) WriteGoogleToken(data []byte) error {
	return c.writeFile(GoogleTokenFile, data, 0600)
}

// writeFile replaces name in the config dir via a temporary file, so a
// crash never leaves a half-written file.
func (c *Config) writeFile(name string, data []byte, perm os.FileMode) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	path := filepath.Join(c.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
