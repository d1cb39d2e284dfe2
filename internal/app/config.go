package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/miralteam/funnelbot/core/config"
	coredatabase "github.com/miralteam/funnelbot/core/database"
)

// Config composes the reusable core configuration with the application's
// database settings.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
}

// LoadConfig reads the application config from a YAML file with
// environment overrides and validates it.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateDatabase checks database settings when the postgres lead
// backend is selected; other backends do not need a database at all.
func validateDatabase(cfg *Config) error {
	if cfg.Leads.Backend != coreconfig.LeadsBackendPostgres {
		return nil
	}
	if strings.TrimSpace(cfg.Database.Host) == "" {
		return fmt.Errorf("database.host is required for the postgres leads backend")
	}
	if strings.TrimSpace(cfg.Database.Name) == "" {
		return fmt.Errorf("database.name is required for the postgres leads backend")
	}
	if strings.TrimSpace(cfg.Database.User) == "" {
		return fmt.Errorf("database.user is required for the postgres leads backend")
	}
	return nil
}
