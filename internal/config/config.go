package config

import (
	"github.com/caarlos0/env/v11"

	"adengine/internal/config/configs"
)

// Config aggregates all configuration sections for the decision engine.
// Fields are populated from environment variables using the caarlos0/env
// library; nested structs are tagged with envPrefix so their fields are
// parsed with the given prefix. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev).
	Env string `env:"ENV" envDefault:"prod"`

	// HTTP holds configuration for the HTTP server.
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger.
	Log configs.Logger `envPrefix:"LOG_"`

	// Psql configures the PostgreSQL connection.
	Psql configs.Postgres `envPrefix:"PSQL_"`

	// Redis configures the optional redis frequency counter backend.
	Redis configs.Redis `envPrefix:"REDIS_"`

	// Frequency configures default frequency caps and the backend used
	// to store counters.
	Frequency configs.Frequency `envPrefix:"FREQ_"`

	// Auction configures scoring constants of the decision engine.
	Auction configs.Auction `envPrefix:"AUCTION_"`
}

// Load reads configuration from environment variables into a Config. If
// parsing fails, an error is returned. All fields are loaded with their
// specified defaults when no environment variable is provided.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
