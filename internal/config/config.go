// Package config holds the node's persistent settings: network credentials,
// the report endpoint, and the node name. Values load in order defaults,
// then the preference store, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults for a factory-fresh node.
const (
	DefaultServerURL   = "http://192.168.1.165:5000/data"
	DefaultScannerName = "scanner"
)

var (
	ErrNotFound   = errors.New("config: key not found")
	ErrUnknownKey = errors.New("config: unknown key")
	ErrInvalid    = errors.New("config: invalid value")
)

// Config is the node's persistent configuration.
type Config struct {
	SSID        string `yaml:"ssid" env:"SCANNER_SSID"`
	Password    string `yaml:"password" env:"SCANNER_PASSWORD"`
	ServerURL   string `yaml:"server_url" env:"SCANNER_SERVER_URL"`
	ScannerName string `yaml:"scanner_name" env:"SCANNER_NAME"`
}

// Defaults returns the factory configuration.
func Defaults() Config {
	return Config{ServerURL: DefaultServerURL, ScannerName: DefaultScannerName}
}

// Validate checks that the server URL is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%w: server url: %v", ErrInvalid, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: server url %q needs http or https", ErrInvalid, c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: server url %q has no host", ErrInvalid, c.ServerURL)
	}
	return nil
}

// LoadEnv overrides fields whose environment variable is set.
func LoadEnv(c *Config) error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load builds the effective configuration. A nil store skips persisted
// preferences. An unusable server URL is replaced by DefaultServerURL; the
// returned config is then usable and the error says what was discarded.
func Load(store *Store) (Config, error) {
	c := Defaults()
	if store != nil {
		if err := store.Load(&c); err != nil {
			return c, err
		}
	}
	if err := LoadEnv(&c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		c.ServerURL = DefaultServerURL
		return c, fmt.Errorf("%w; falling back to %s", err, DefaultServerURL)
	}
	return c, nil
}

// YAML renders the configuration for display with the password masked.
func (c Config) YAML() ([]byte, error) {
	if c.Password != "" {
		c.Password = "********"
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return b, nil
}
