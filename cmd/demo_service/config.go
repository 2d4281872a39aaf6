package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ServiceConfig is a top-level block identifying the service.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	Instance string `yaml:"instance"`
}

// MetricsConfig is a top-level block for metrics configuration.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	File    *struct {
		Path           string        `yaml:"path"`
		UpdateInterval time.Duration `yaml:"update_interval"`
	} `yaml:"file"`
}

// Config describes all demo service configuration options.
type Config struct {
	Service *ServiceConfig `yaml:"service"`
	Listen  string         `yaml:"listen"`
	Metrics *MetricsConfig `yaml:"metrics"`
}

// parseConfig parses a Config instance from a file on disk. The service name
// and instance can be overridden via the SERVICE_NAME and INSTANCE_ID
// environment variables.
func parseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config failed")
	}

	var cfg *Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config failed")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Service == nil {
		cfg.Service = &ServiceConfig{}
	}
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		cfg.Service.Name = name
	}
	if instance := os.Getenv("INSTANCE_ID"); instance != "" {
		cfg.Service.Instance = instance
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	return cfg, nil
}
