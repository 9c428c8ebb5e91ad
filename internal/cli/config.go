package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pktikkani/forecastio/libs/config"
)

// Config holds the client settings, loadable from
// ~/.config/forecastio/config.yaml with env overrides.
type Config struct {
	API     APIConfig `yaml:"api"`
	DataDir string    `yaml:"data_dir" env:"FORECASTIO_DATA_DIR"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url" env:"FORECASTIO_API_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"FORECASTIO_API_TIMEOUT"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads the config file if present and applies env overrides.
func LoadConfig() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 10,
		},
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("cli: resolve home dir: %w", err)
	}
	cfg.DataDir = filepath.Join(home, ".local", "share", "forecastio")

	path := filepath.Join(home, ".config", "forecastio", "config.yaml")
	if err := config.Load(path, &cfg); err != nil {
		return cfg, fmt.Errorf("cli: load config: %w", err)
	}
	return cfg, nil
}
