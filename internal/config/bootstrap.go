package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

//go:embed default.yml
var defaultYAML []byte

// DefaultYAML is the annotated config written on first start.
func DefaultYAML() []byte { return append([]byte(nil), defaultYAML...) }

// EnsureUserConfig returns dataDir/config.yml, creating it from defaultPath
// or, when that is empty or missing, from the built-in default.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}

	src := defaultYAML
	if defaultPath != "" {
		if b, err := os.ReadFile(defaultPath); err == nil {
			src = b
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}

	tmp := userPath + ".tmp"
	if err := os.WriteFile(tmp, src, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, userPath); err != nil {
		return "", err
	}
	return userPath, nil
}
