package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// Prefs is editor state remembered between runs.
type Prefs struct {
	LastDocument string `toml:"last_document"`
	LastCatalog  string `toml:"last_catalog"`
}

// DefaultPrefsPath returns ~/.config/nodes/prefs.toml.
func DefaultPrefsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prefs.toml"), nil
}

// LoadPrefs reads prefs from path. A missing file yields empty prefs.
func LoadPrefs(path string) (Prefs, error) {
	var p Prefs
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return Prefs{}, nil
		}
		return Prefs{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read prefs %s", path)
	}
	return p, nil
}

// SavePrefs writes p to path through a temp file.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create prefs dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prefs-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write prefs")
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(p); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "encode prefs")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write prefs")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write prefs")
	}
	return nil
}
