// Package file loads daemon settings from a TOML file, layered over the
// built-in defaults.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// DefaultPath returns the stock config location, ~/.floatd/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(home, ".floatd", "config.toml"), nil
}

// Load reads settings from path. A missing file yields the defaults; a
// present file overrides only the keys it sets. The result is validated.
func Load(path string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("config: %s not found, using defaults", path)
	case err != nil:
		return settings, fmt.Errorf("config: reading %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyDerivedDefaults(&settings)

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("config: %s: %w", path, err)
	}
	return settings, nil
}

// applyDerivedDefaults fills paths that depend on the home directory and
// cannot live in DefaultSettings.
func applyDerivedDefaults(s *domain.Settings) {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	if s.Dropzone == "" {
		s.Dropzone = filepath.Join(home, "float-dropzone")
	}
	if s.StatePath == "" {
		name := "state.json"
		if s.StateBackend == "sqlite" {
			name = "state.db"
		}
		s.StatePath = filepath.Join(home, ".floatd", name)
	}
}

// WriteDefault writes the default settings to path, creating parent
// directories. Fails if the file already exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %w: %s", domain.ErrAlreadyExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}

	settings := domain.DefaultSettings()
	applyDerivedDefaults(&settings)
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("config: marshalling defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
