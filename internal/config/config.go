package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "FASTERFOODS"
	defaultAPIBaseURL    = "https://api.fasterfoods.app"
	defaultLogLevel      = "info"
	defaultProbeInterval = 15 * time.Second
)

// AppConfig captures runtime configuration for the sync client.
type AppConfig struct {
	APIBaseURL    string
	APIToken      string
	DataDir       string
	LogLevel      string
	ProbeInterval time.Duration
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("api.base_url", defaultAPIBaseURL)
	configViper.SetDefault("api.token", "")
	configViper.SetDefault("data.dir", "")
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("reachability.probe_interval", defaultProbeInterval.String())
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		APIBaseURL:    configViper.GetString("api.base_url"),
		APIToken:      configViper.GetString("api.token"),
		DataDir:       configViper.GetString("data.dir"),
		LogLevel:      configViper.GetString("log.level"),
		ProbeInterval: configViper.GetDuration("reachability.probe_interval"),
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return AppConfig{}, err
		}
		cfg.DataDir = dir
	}

	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = defaultProbeInterval
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}

// defaultDataDir resolves the on-disk location for the snapshot and outbox
// documents. A shared container configured through data.dir takes priority;
// this fallback is the app-private per-user config directory.
func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "fasterfoods"), nil
}
