package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the hot-reloadable half of the emissary wiring. It lives in a
// small YAML file so chaos tooling can flip the emissary on and off, or point
// it elsewhere, without restarting the app.
type Settings struct {
	Emissary EmissarySettings `yaml:"emissary"`
}

type EmissarySettings struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// LoadSettings reads and parses the YAML settings file at path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("settings: read file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("settings: parse yaml: %w", err)
	}
	if s.Emissary.Enabled && strings.TrimSpace(s.Emissary.URL) == "" {
		return nil, fmt.Errorf("settings: emissary.url is required when enabled")
	}
	return &s, nil
}
