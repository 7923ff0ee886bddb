package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FEEDBOX_API_URL", "FEEDBOX_FAVORITES_BACKEND", "FEEDBOX_LOG_LEVEL", "FEEDBOX_DATA_DIR"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("unexpected default base URL %q", cfg.API.BaseURL)
	}
	if cfg.Favorites.Backend != "sqlite" {
		t.Errorf("unexpected default backend %q", cfg.Favorites.Backend)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("unexpected default timeout %v", cfg.Timeout())
	}
}

func TestLoadInvalidJSONGivesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.TimeFormat != "15:04" {
		t.Errorf("expected default time format, got %q", cfg.UI.TimeFormat)
	}
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api":{"base_url":"http://backend:9000"}}`), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://backend:9000" {
		t.Errorf("expected base URL from file, got %q", cfg.API.BaseURL)
	}
	if cfg.Update.CooldownSeconds != 5 {
		t.Errorf("expected default cooldown, got %d", cfg.Update.CooldownSeconds)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEEDBOX_API_URL", "http://env:1234")
	t.Setenv("FEEDBOX_FAVORITES_BACKEND", "bolt")
	t.Setenv("FEEDBOX_DATA_DIR", "/tmp/fbx")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://env:1234" {
		t.Errorf("expected env base URL, got %q", cfg.API.BaseURL)
	}
	if got := cfg.FavoritesPath(); got != filepath.Join("/tmp/fbx", "favorites.bolt") {
		t.Errorf("unexpected favorites path %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Update.CooldownSeconds = 0
	cfg.UI.TimeFormat = "3:04PM"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again.UI.TimeFormat != "3:04PM" {
		t.Errorf("expected saved time format, got %q", again.UI.TimeFormat)
	}
	if again.UpdateCooldown() != 0 {
		t.Errorf("expected throttle disabled, got %v", again.UpdateCooldown())
	}
}

func TestFavoritesPathDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"

	cases := map[string]string{
		"sqlite": "/data/feedbox.db",
		"file":   "/data/favorites.json",
		"memory": "",
	}
	for backend, want := range cases {
		cfg.Favorites.Backend = backend
		if got := cfg.FavoritesPath(); got != filepath.FromSlash(want) {
			t.Errorf("%s: expected %q, got %q", backend, want, got)
		}
	}
}

func TestEventLogPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	if got, want := cfg.EventLogPath(), filepath.FromSlash("/data/events.jsonl"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
