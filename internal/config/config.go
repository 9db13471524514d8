package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// durationSeconds parses env as time.Duration: "10s", "5m" or bare number = seconds (e.g. "10" -> 10s).
type durationSeconds time.Duration

// SetValue implements cleanenv.Setter.
func (d *durationSeconds) SetValue(data string) error {
	v, err := parseDuration(data)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	// Strip optional surrounding quotes: "10s" or '10s'
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	// Bare number first (e.g. HTTP_READ_TIMEOUT=10) — so "10s" never goes to ParseInt
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Store    StoreConfig
	Emissary EmissaryConfig
}

type AppConfig struct {
	Name    string `env:"APP_NAME" env-default:"chaos-demo-app"`
	Env     string `env:"APP_ENV" env-default:"dev"`
	Version string `env:"VERSION" env-default:"dev"`
}

type HTTPConfig struct {
	Port string `env:"HTTP_PORT" env-default:"8080"`

	// Value: "10s", "5m" or a number of seconds without suffix (e.g. 10).
	ReadTimeout  durationSeconds `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout durationSeconds `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  durationSeconds `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type StoreConfig struct {
	// TTL is how long a todo stays visible after creation.
	TTL durationSeconds `env:"TODO_TTL" env-default:"5m"`
	// SweepInterval controls the background janitor; the per-access check
	// stays authoritative regardless of this value.
	SweepInterval durationSeconds `env:"SWEEP_INTERVAL" env-default:"30s"`
}

type EmissaryConfig struct {
	// URL of the external chaos-emissary service. Empty disables probing.
	URL string `env:"EMISSARY_URL" env-default:""`
	// ProbeTimeout bounds a single reachability probe.
	ProbeTimeout durationSeconds `env:"EMISSARY_PROBE_TIMEOUT" env-default:"2s"`
	// SettingsPath points to an optional YAML file with hot-reloadable
	// emissary settings. Empty disables the watcher.
	SettingsPath string `env:"EMISSARY_SETTINGS" env-default:""`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.Store.TTL.Duration() <= 0 {
		return Config{}, fmt.Errorf("TODO_TTL must be positive")
	}
	if cfg.Store.SweepInterval.Duration() <= 0 {
		return Config{}, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}
