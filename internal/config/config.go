package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerURL = "http://localhost:4000/api"
	defaultSocketURL = "ws://localhost:4000/socket"
	defaultTimeout   = "10s"
	envPrefix        = "MESADOC_"
)

// Config is the client configuration, loaded from the YAML file and then
// overridden by MESADOC_* environment variables.
type Config struct {
	ServerURL string `yaml:"server_url"`
	SocketURL string `yaml:"socket_url"`
	Timeout   string `yaml:"timeout"`
	StateDir  string `yaml:"state_dir"`
}

// DefaultPath is the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "mesadoc", "config.yaml")
}

func defaults() Config {
	stateDir := ""
	if dir, err := os.UserConfigDir(); err == nil {
		stateDir = filepath.Join(dir, "mesadoc")
	}
	return Config{
		ServerURL: defaultServerURL,
		SocketURL: defaultSocketURL,
		Timeout:   defaultTimeout,
		StateDir:  stateDir,
	}
}

// Load reads the config file at path (missing file falls back to defaults),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if v := os.Getenv(envPrefix + "SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(envPrefix + "SOCKET_URL"); v != "" {
		cfg.SocketURL = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv(envPrefix + "STATE_DIR"); v != "" {
		cfg.StateDir = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid server_url %q", c.ServerURL)
	}
	w, err := url.Parse(c.SocketURL)
	if err != nil || !strings.HasPrefix(w.Scheme, "ws") {
		return fmt.Errorf("config: invalid socket_url %q", c.SocketURL)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("config: invalid timeout %q", c.Timeout)
	}
	if c.StateDir == "" {
		return errors.New("config: state_dir is required")
	}
	return nil
}

// RequestTimeout returns the parsed per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(defaultTimeout)
	}
	return d
}
