package config

import (
	"errors"
	"fmt"

	"github.com/asdine/storm/v3"
)

const bucket = "config"

// Preference keys, as stored.
const (
	KeySSID      = "ssid"
	KeyPassword  = "password"
	KeyServerURL = "serverUrl"
)

// Keys lists the persisted keys in display order.
var Keys = []string{KeySSID, KeyPassword, KeyServerURL}

func field(c *Config, key string) (*string, error) {
	switch key {
	case KeySSID:
		return &c.SSID, nil
	case KeyPassword:
		return &c.Password, nil
	case KeyServerURL:
		return &c.ServerURL, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Store persists preferences in a storm key-value bucket.
type Store struct {
	db *storm.DB
}

// OpenStore opens or creates the preference database at path.
func OpenStore(path string) (*Store, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open preferences %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns one stored value.
func (s *Store) Get(key string) (string, error) {
	if _, err := field(&Config{}, key); err != nil {
		return "", err
	}
	var v string
	if err := s.db.Get(bucket, key, &v); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// Load copies every stored value into c, leaving unset keys alone.
func (s *Store) Load(c *Config) error {
	for _, key := range Keys {
		v, err := s.Get(key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		p, _ := field(c, key)
		*p = v
	}
	return nil
}

// Set stores one value. The server URL is validated first.
func (s *Store) Set(key, value string) error {
	if _, err := field(&Config{}, key); err != nil {
		return err
	}
	if key == KeyServerURL {
		c := Defaults()
		c.ServerURL = value
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if err := s.db.Set(bucket, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Save stores every persisted field of c.
func (s *Store) Save(c Config) error {
	for _, key := range Keys {
		p, _ := field(&c, key)
		if err := s.Set(key, *p); err != nil {
			return err
		}
	}
	return nil
}

// Clear erases every stored preference.
func (s *Store) Clear() error {
	for _, key := range Keys {
		if err := s.db.Delete(bucket, key); err != nil && !errors.Is(err, storm.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
