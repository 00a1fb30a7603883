package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// AllowSelfServiceAdmin keeps the original self-service admin signup
	// (role=admin registers as approved). Set to false so only existing
	// administrators may grant the admin role.
	AllowSelfServiceAdmin    bool `env:"ALLOW_SELF_SERVICE_ADMIN,   default=true"`
	RequireEmailConfirmation bool `env:"REQUIRE_EMAIL_CONFIRMATION, default=false"`

	// Profile reconciliation retry policy for the signup foreign-key race.
	ReconcileAttempts int           `env:"PROFILE_RECONCILE_ATTEMPTS, default=3"`
	ReconcileBackoff  time.Duration `env:"PROFILE_RECONCILE_BACKOFF,  default=200ms"`

	EventWorkers       int           `env:"EVENT_WORKERS,        default=8"`
	DangerZoneInterval time.Duration `env:"DANGER_ZONE_INTERVAL, default=5s"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=xray_monitor"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
