// Package config handles the XDG configuration directory, its files and the
// optional config.toml settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-logr/logr"
	"golang.org/x/text/language"

	"taskdeck/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// SettingsFile is the optional TOML settings filename.
	SettingsFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DataDir is the default directory of the file storage backend,
	// relative to the config directory.
	DataDir = "data"

	// EnvDSN overrides storage.dsn.
	EnvDSN = "TASKDECK_DSN"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log is the logger commands and storage write diagnostics to.
	Log logr.Logger

	// MaxHistory bounds the undo history. Zero means the built-in default.
	MaxHistory int

	// Locale is used to collate task names.
	Locale language.Tag

	// Storage selects where the task list is kept.
	Storage Storage
}

// Storage is the [storage] table of config.toml.
type Storage struct {
	// Backend is one of file, postgres or mysql.
	Backend string `toml:"backend"`

	// DSN is the connection string of the database backends.
	DSN string `toml:"dsn"`

	// Dir overrides the file backend directory.
	Dir string `toml:"dir"`
}

// settings mirrors config.toml.
type settings struct {
	MaxHistory int     `toml:"max_history"`
	Locale     string  `toml:"locale"`
	Storage    Storage `toml:"storage"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Log:     logr.Discard(),
		Locale:  language.Und,
		Storage: Storage{Backend: storage.BackendFile},
	}, nil
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

// Load reads config.toml from the config directory, if present, and applies
// the TASKDECK_DSN override. A missing file leaves the defaults in place.
func (c *Config) Load() error {
	var s settings
	md, err := toml.DecodeFile(c.SettingsPath(), &s)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return fmt.Errorf("invalid %s: unknown keys: %s", SettingsFile, strings.Join(keys, ", "))
		}
	}

	if s.MaxHistory < 0 {
		return fmt.Errorf("invalid %s: max_history must not be negative", SettingsFile)
	}
	c.MaxHistory = s.MaxHistory

	if s.Locale != "" {
		tag, err := language.Parse(s.Locale)
		if err != nil {
			return fmt.Errorf("invalid %s: locale %q: %w", SettingsFile, s.Locale, err)
		}
		c.Locale = tag
	}

	if s.Storage.Backend != "" {
		c.Storage.Backend = strings.ToLower(s.Storage.Backend)
	}
	if s.Storage.DSN != "" {
		c.Storage.DSN = s.Storage.DSN
	}
	if s.Storage.Dir != "" {
		c.Storage.Dir = s.Storage.Dir
	}
	if dsn := os.Getenv(EnvDSN); dsn != "" {
		c.Storage.DSN = dsn
	}
	return c.validateStorage()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case storage.BackendFile:
		return nil
	case storage.BackendPostgres, storage.BackendMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage backend %s needs a dsn (set storage.dsn or %s)", c.Storage.Backend, EnvDSN)
		}
		return nil
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
}

// SettingsPath returns the path to config.toml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// StorageDir returns the directory of the file storage backend.
func (c *Config) StorageDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(c.Dir, DataDir)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
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
