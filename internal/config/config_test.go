package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	for _, k := range []string{"GEMINI_API_KEY", "CANOPY_STORE", "CANOPY_DATA_DIR", "CANOPY_DATABASE_URL", "CANOPY_REDIS_URL", "CANOPY_ADDR"} {
		t.Setenv(k, "")
	}
	return tmp
}

func TestDefault(t *testing.T) {
	isolate(t)
	cfg := Default()

	if cfg.Store.Backend != BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Store.Backend)
	}
	if cfg.Editor.AutosaveMillis != 1500 {
		t.Errorf("expected autosave 1500ms, got %d", cfg.Editor.AutosaveMillis)
	}
	if cfg.Editor.Theme != "snowfall" || cfg.Editor.Orientation != "vertical" {
		t.Errorf("unexpected editor defaults: %+v", cfg.Editor)
	}
	if !cfg.AI.Enabled {
		t.Error("AI should be enabled by default")
	}
}

func TestDirs(t *testing.T) {
	tmp := isolate(t)
	if got, want := Dir(), filepath.Join(tmp, "config", "canopy"); got != want {
		t.Errorf("Dir: expected %q, got %q", want, got)
	}
	if got, want := LogPath(), filepath.Join(tmp, "state", "canopy", "canopy.log"); got != want {
		t.Errorf("LogPath: expected %q, got %q", want, got)
	}
	if got, want := Default().Store.DataDir, filepath.Join(tmp, "data", "canopy", "projects"); got != want {
		t.Errorf("DataDir: expected %q, got %q", want, got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if got, want := Dir(), filepath.Join(home, ".config", "canopy"); got != want {
		t.Errorf("Dir without XDG: expected %q, got %q", want, got)
	}
}

func TestLoad_CreatesDataDir(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(cfg.Store.DataDir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Editor.Theme = "midnight"
	cfg.Store.Backend = BackendRedis
	cfg.Store.RedisURL = "redis://localhost:6379/2"
	cfg.AI.APIKey = "secret"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if string(data) == "" {
		t.Fatal("config file is empty")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Editor.Theme != "midnight" {
		t.Errorf("expected theme midnight, got %q", loaded.Editor.Theme)
	}
	if loaded.Store.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("expected redis url, got %q", loaded.Store.RedisURL)
	}
	if loaded.AI.APIKey != "" {
		t.Error("api key should not be persisted")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmp := isolate(t)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("CANOPY_STORE", "SQLite")
	t.Setenv("CANOPY_DATA_DIR", filepath.Join(tmp, "elsewhere"))
	t.Setenv("CANOPY_ADDR", ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.APIKey != "from-env" {
		t.Errorf("api key: got %q", cfg.AI.APIKey)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("backend: got %q", cfg.Store.Backend)
	}
	if cfg.Store.DataDir != filepath.Join(tmp, "elsewhere") {
		t.Errorf("data dir: got %q", cfg.Store.DataDir)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
}

func TestLoad_BadFile(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(), []byte("[store\nbackend ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}
