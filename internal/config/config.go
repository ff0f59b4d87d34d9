package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okatav/dodo/internal/remote"
)

const (
	dirName      = ".dodo"
	fileName     = "config.yaml"
	debugLogName = "debug.log"
)

// Config is everything the client can be told about its surroundings.
// Values resolve defaults < ~/.dodo/config.yaml < DODO_* env vars.
type Config struct {
	APIURL string `yaml:"api_url"`
	Owner  int    `yaml:"owner"`
	Theme  string `yaml:"theme"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		APIURL: remote.DefaultBaseURL,
		Owner:  1,
		Theme:  "classic",
	}
}

func dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// FilePath returns the config file location, whether or not it exists yet.
func FilePath() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, fileName), nil
}

// DebugLogPath returns where the -debug flag sends the log.
func DebugLogPath() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, debugLogName), nil
}

// LoadFile resolves defaults plus the config file, ignoring the
// environment. `config set` edits this view so env overrides never get
// baked into the file.
func LoadFile() (Config, error) {
	cfg := Default()

	p, err := FilePath()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load resolves the effective configuration: defaults, then the config
// file if present, then DODO_API_URL / DODO_OWNER / DODO_THEME.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if v := strings.TrimSpace(os.Getenv("DODO_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DODO_OWNER")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("DODO_OWNER: not a number: %q", v)
		}
		cfg.Owner = n
	}
	if v := strings.TrimSpace(os.Getenv("DODO_THEME")); v != "" {
		cfg.Theme = v
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating ~/.dodo with owner-only
// permissions the first time.
func Save(cfg Config) error {
	d, err := dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d, fileName), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the config file; a missing file is not an error.
func Delete() error {
	p, err := FilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Set assigns one key ("api_url", "owner", "theme") from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		if value == "" {
			return fmt.Errorf("api_url: empty value")
		}
		c.APIURL = value
	case "owner":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("owner: not a number: %q", value)
		}
		c.Owner = n
	case "theme":
		switch value {
		case "classic", "neon", "mono":
		default:
			return fmt.Errorf("theme: unknown theme %q", value)
		}
		c.Theme = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
