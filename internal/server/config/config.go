package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	libconfig "github.com/pktikkani/forecastio/libs/config"
)

// Config represents server configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"FORECASTIO_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"FORECASTIO_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"FORECASTIO_REDIS_ADDR"`
		Password string `yaml:"password" env:"FORECASTIO_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"FORECASTIO_REDIS_DB"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"FORECASTIO_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"FORECASTIO_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
}

// Load reads configuration using the shared config loader. The config file
// path comes from FORECASTIO_SERVER_CONFIG and defaults to config.yaml in the
// working directory.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.JWT.ExpiresInMinutes = 60

	path := os.Getenv("FORECASTIO_SERVER_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if err := libconfig.Load(path, cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}
