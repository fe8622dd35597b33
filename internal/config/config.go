package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultStorageKey     = "tasks"
	DefaultView           = "groups"
	DefaultSort           = "none"
	DefaultLogLevel       = "info"

	// ConfigEnv overrides the config file location.
	ConfigEnv = "TODO_CONFIG"
	appDir    = "todo"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	ClearAll string `toml:"clear_all"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	Timer    string `toml:"timer"`
	View     string `toml:"view"`
	Sort     string `toml:"sort"`
	Search   string `toml:"search"`
}

type Config struct {
	DBPath      string `toml:"db_path"`
	StorageKey  string `toml:"storage_key"`
	DefaultView string `toml:"default_view"`
	DefaultSort string `toml:"default_sort"`
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`
	Keys        Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TODO_CONFIG when set, otherwise config.toml under
// the user config directory. It falls back to the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(ConfigEnv)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDir, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) fillDefaults(dir string) {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, DefaultDBName)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		c.StorageKey = DefaultStorageKey
	}
	switch c.DefaultView {
	case "groups", "weeks", "months":
	default:
		c.DefaultView = DefaultView
	}
	switch c.DefaultSort {
	case "none", "priority", "date":
	default:
		c.DefaultSort = DefaultSort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:      filepath.Join(dir, DefaultDBName),
		StorageKey:  DefaultStorageKey,
		DefaultView: DefaultView,
		DefaultSort: DefaultSort,
		LogPath:     filepath.Join(dir, "todo.log"),
		LogLevel:    DefaultLogLevel,
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			ClearAll: "D",
			Confirm:  "enter",
			Cancel:   "esc",
			Timer:    "t",
			View:     "v",
			Sort:     "s",
			Search:   "/",
		},
	}
}
