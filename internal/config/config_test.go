package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaults(t *testing.T) {
	c := Defaults()
	if c.ServerURL != DefaultServerURL || c.ScannerName != DefaultScannerName {
		t.Errorf("got %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	bad := []string{"", "192.168.1.5:5000/data", "ftp://host/data", "http://", "http://[::1"}
	for _, u := range bad {
		c := Defaults()
		c.ServerURL = u
		if err := c.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%q: expected ErrInvalid, got %v", u, err)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(KeySSID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("fresh store: expected ErrNotFound, got %v", err)
	}

	want := Config{SSID: "home", Password: "secret", ServerURL: "https://example.test/data"}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}

	got := Defaults()
	if err := s.Load(&got); err != nil {
		t.Fatal(err)
	}
	if got.SSID != "home" || got.Password != "secret" || got.ServerURL != "https://example.test/data" {
		t.Errorf("got %+v", got)
	}
	if got.ScannerName != DefaultScannerName {
		t.Errorf("scanner name is not persisted, got %q", got.ScannerName)
	}
}

func TestStoreSetRejects(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set("hostname", "x"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if err := s.Set(KeyServerURL, "not a url"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := s.Get(KeyServerURL); !errors.Is(err, ErrNotFound) {
		t.Errorf("rejected value must not be stored: %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	s := openTestStore(t)
	if err := s.Clear(); err != nil {
		t.Fatalf("clearing an empty store: %v", err)
	}
	s.Set(KeySSID, "home")
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(KeySSID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestLoadOrder(t *testing.T) {
	s := openTestStore(t)
	s.Set(KeySSID, "stored-ssid")
	s.Set(KeyServerURL, "http://stored.test/data")

	t.Setenv("SCANNER_SERVER_URL", "http://env.test/data")
	t.Setenv("SCANNER_NAME", "lobby")

	c, err := Load(s)
	if err != nil {
		t.Fatal(err)
	}
	if c.SSID != "stored-ssid" {
		t.Errorf("ssid: got %q", c.SSID)
	}
	if c.ServerURL != "http://env.test/data" {
		t.Errorf("env must override the store, got %q", c.ServerURL)
	}
	if c.ScannerName != "lobby" {
		t.Errorf("scanner name: got %q", c.ScannerName)
	}
}

func TestLoadWithoutStore(t *testing.T) {
	c, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c != Defaults() {
		t.Errorf("got %+v", c)
	}
}

func TestLoadInvalidURLFallsBack(t *testing.T) {
	s := openTestStore(t)
	s.Set(KeySSID, "stored-ssid")
	t.Setenv("SCANNER_SERVER_URL", "ftp://nope")

	c, err := Load(s)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if c.ServerURL != DefaultServerURL {
		t.Errorf("server url: got %q, want %q", c.ServerURL, DefaultServerURL)
	}
	if c.SSID != "stored-ssid" {
		t.Errorf("valid fields must survive the fallback, ssid=%q", c.SSID)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("fallback config must validate: %v", err)
	}
}

func TestYAMLMasksPassword(t *testing.T) {
	c := Config{SSID: "home", Password: "hunter2", ServerURL: DefaultServerURL, ScannerName: "scanner"}
	b, err := c.YAML()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "hunter2") {
		t.Fatalf("password leaked:\n%s", b)
	}
	var back Config
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.SSID != "home" || back.Password != "********" || back.ServerURL != DefaultServerURL {
		t.Errorf("got %+v", back)
	}
}

func TestMaintenanceCommands(t *testing.T) {
	m := &Maintenance{Store: openTestStore(t)}

	if err := m.Set(KeySSID, "  office  "); err != nil {
		t.Fatal(err)
	}
	if !m.Changed {
		t.Error("Set must mark the store changed")
	}
	if v, _ := m.Store.Get(KeySSID); v != "office" {
		t.Errorf("value must be trimmed, got %q", v)
	}

	var out strings.Builder
	if err := m.Show(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ssid: office") {
		t.Errorf("show output:\n%s", out.String())
	}

	if err := m.Erase(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Store.Get(KeySSID); !errors.Is(err, ErrNotFound) {
		t.Errorf("erase did not clear: %v", err)
	}
}
