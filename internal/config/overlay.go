package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordsFile lets the search terms live apart from the main config.
type KeywordsFile struct {
	Location string   `yaml:"location"`
	Keywords []string `yaml:"keywords"`
}

// OverlayKeywords replaces the search keywords (and location, if given)
// with those in path. A missing file is not an error.
func OverlayKeywords(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var kf KeywordsFile
	if err := yaml.Unmarshal(b, &kf); err != nil {
		return err
	}

	if len(kf.Keywords) > 0 {
		cfg.Search.Keywords = kf.Keywords
	}
	if kf.Location != "" {
		cfg.Search.Location = kf.Location
	}
	return nil
}
