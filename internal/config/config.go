package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	AI     AIConfig     `toml:"ai"`
	Store  StoreConfig  `toml:"store"`
	Editor EditorConfig `toml:"editor"`
	Server ServerConfig `toml:"server"`
}

// AIConfig selects the Gemini model. The key usually comes from GEMINI_API_KEY.
type AIConfig struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// StoreConfig picks where projects are persisted.
type StoreConfig struct {
	Backend     string `toml:"backend"` // "file", "sqlite", "postgres", "redis"
	DataDir     string `toml:"data_dir"`
	DatabaseURL string `toml:"database_url"`
	RedisURL    string `toml:"redis_url"`
	// NotifyRedis broadcasts changes over redis pub/sub for non-redis backends too.
	NotifyRedis bool `toml:"notify_redis"`
}

type EditorConfig struct {
	Theme          string `toml:"theme"`
	Orientation    string `toml:"orientation"`
	AutosaveMillis int    `toml:"autosave_ms"`
	Template       string `toml:"template"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

func Default() *Config {
	return &Config{
		AI: AIConfig{Enabled: true, Model: "gemini-2.5-flash"},
		Store: StoreConfig{
			Backend: BackendFile,
			DataDir: defaultDataDir(),
		},
		Editor: EditorConfig{
			Theme:          "snowfall",
			Orientation:    "vertical",
			AutosaveMillis: 1500,
			Template:       "blank",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:7878",
			CORSOrigins: []string{"*"},
		},
	}
}

// Dir returns the canopy config directory.
func Dir() string {
	return filepath.Join(xdgConfig(), "canopy")
}

func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// StateDir holds the log file.
func StateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "canopy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "canopy")
}

func LogPath() string {
	return filepath.Join(StateDir(), "canopy.log")
}

// Load layers the config file over the defaults and then applies
// environment overrides. A missing or unreadable file is not an error.
func Load() (*Config, error) {
	cfg := Default()
	if data, err := os.ReadFile(Path()); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if cfg.Store.Backend == BackendFile || cfg.Store.Backend == BackendSQLite {
		if err := os.MkdirAll(cfg.Store.DataDir, 0o755); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("CANOPY_STORE"); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CANOPY_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("CANOPY_DATABASE_URL"); v != "" {
		cfg.Store.DatabaseURL = v
	}
	if v := os.Getenv("CANOPY_REDIS_URL"); v != "" {
		cfg.Store.RedisURL = v
	}
	if v := os.Getenv("CANOPY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Save writes cfg to the config file. The API key is never written back.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := *cfg
	out.AI.APIKey = ""
	return toml.NewEncoder(f).Encode(out)
}

func xdgConfig() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func defaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "canopy", "projects")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "canopy", "projects")
}
