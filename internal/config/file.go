package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig is the trainvocctl configuration stored at
// ~/.config/trainvoc/config.toml.
type FileConfig struct {
	AssetsDir   string `toml:"assets_dir"`
	PrefsDB     string `toml:"prefs_db"`
	DeviceID    string `toml:"device_id"`
	VersionName string `toml:"version_name"`
	VersionCode int    `toml:"version_code"`
	LogLevel    string `toml:"log_level"`
}

func DefaultFileConfig() FileConfig {
	return FileConfig{
		PrefsDB:     "~/.trainvoc/preferences.db",
		DeviceID:    "local",
		VersionName: "1.2.0",
		VersionCode: 12,
		LogLevel:    "warn",
	}
}

func FilePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "trainvoc", "config.toml")
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.VersionCode < 1 {
		return cfg, fmt.Errorf("parse %s: version_code must be at least 1", path)
	}
	return cfg, nil
}

func SaveFile(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
