package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/clarify/assets"
	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/pkg/filesystem"
	"github.com/doeshing/clarify/internal/ports"
)

// FileLoader loads YAML configuration from ~/.clarify/config.yaml
// (overridable via CLARIFY_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the embedded default
// config is written out so users have a commented file to edit.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save marshals cfg back to the config file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Backup copies the current config file next to itself and returns the
// backup path.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, data, 0o600); err != nil {
		return "", err
	}
	return backupPath, nil
}

// Reset rewrites the config file from the embedded defaults and returns the
// resulting configuration.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
		return domain.Config{}, err
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("CLARIFY_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".clarify", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// hydrateDefaults fills string fields a hand-edited file may have dropped.
// Numeric fields are defaulted by the Config accessors instead, so a zero in
// the file and a missing key behave the same.
func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.DefaultLevel == "" {
		cfg.Preferences.DefaultLevel = string(domain.LevelStudent)
	}
	if cfg.Preferences.RenderMode == "" {
		cfg.Preferences.RenderMode = "text"
	}
	if cfg.Service.AuthEnvVar == "" {
		cfg.Service.AuthEnvVar = "CLARIFY_API_KEY"
	}
	if cfg.History.Store == "" {
		cfg.History.Store = "sqlite"
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
