// Package config loads tasks.toml from standard locations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const FileName = "tasks.toml"

// Backends accepted by the backend setting.
var Backends = []string{"file", "sqlite", "mysql", "bolt", "memory"}

// Config holds every setting; zero values fall back to Default().
type Config struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"` // data file for file, sqlite and bolt
	DSN      string `toml:"dsn"`  // mysql only
	Identity string `toml:"identity"`
	Theme    string `toml:"theme"`
	LogLevel string `toml:"log_level"`

	RetryDelay   string `toml:"retry_delay"`
	WriteTimeout string `toml:"write_timeout"`
}

func Default() Config {
	return Config{
		Backend:      "file",
		Identity:     "uuid",
		Theme:        "classic",
		LogLevel:     "warn",
		RetryDelay:   "100ms",
		WriteTimeout: "5s",
	}
}

// StandardPaths returns the config locations in order of priority.
func StandardPaths() []string {
	paths := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tasks", "config.toml"))
	}
	return paths
}

// Load reads path, or the first standard path that exists when path is
// empty. It returns the file actually used ("" when none was found).
func Load(path string) (Config, string, error) {
	if path != "" {
		cfg, err := LoadFile(path)
		return cfg, path, err
	}
	for _, p := range StandardPaths() {
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// LoadFile decodes path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config %s not found", path)
		}
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks enumerations and durations.
func (c Config) Validate() error {
	if !contains(Backends, c.Backend) {
		return fmt.Errorf("invalid backend %q: must be one of %v", c.Backend, Backends)
	}
	if c.Backend == "mysql" && c.DSN == "" {
		return errors.New("backend mysql needs a dsn")
	}
	switch strings.ToLower(c.Identity) {
	case "uuid", "text":
	default:
		return fmt.Errorf("invalid identity %q: must be uuid or text", c.Identity)
	}
	if _, err := c.RetryDelayDuration(); err != nil {
		return err
	}
	if _, err := c.WriteTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

func (c Config) RetryDelayDuration() (time.Duration, error) {
	return parseDuration("retry_delay", c.RetryDelay)
}

func (c Config) WriteTimeoutDuration() (time.Duration, error) {
	return parseDuration("write_timeout", c.WriteTimeout)
}

func parseDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", name, s)
	}
	return d, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
