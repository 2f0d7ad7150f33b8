// Package config loads server configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration. Values come from SERUJIER_*
// environment variables; main applies flag overrides on top.
type Config struct {
	Addr          string `env:"ADDR" envDefault:":8321"`
	DBPath        string `env:"DB_PATH" envDefault:"serujier.db"`
	ArchiveURL    string `env:"ARCHIVE_URL"`
	ArchiveToken  string `env:"ARCHIVE_TOKEN"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	OpenBrowser   bool   `env:"OPEN_BROWSER" envDefault:"false"`

	// BaseServiceTypes are the service types whose save opens the
	// consecutive flow. Empty means the built-in defaults.
	BaseServiceTypes []string `env:"BASE_SERVICE_TYPES" envSeparator:","`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SERUJIER_"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
