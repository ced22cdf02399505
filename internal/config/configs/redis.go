package configs

// Redis holds connection settings for the redis-backed frequency counter
// store. Only consulted when the frequency backend is set to "redis".
type Redis struct {
	Addr     string `env:"ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
