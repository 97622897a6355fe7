package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug               bool          `envconfig:"debug"`
	Port                int           `envconfig:"port" default:"8080"`
	Env                 string        `envconfig:"env" default:"dev"`
	PostgresHost        string        `envconfig:"postgres_host" default:"localhost"`
	PostgresUser        string        `envconfig:"postgres_user"`
	PostgresDB          string        `envconfig:"postgres_db"`
	PostgresPort        int           `envconfig:"postgres_port" default:"5432"`
	PostgresPassword    string        `envconfig:"postgres_password"`
	PostgresTimeZone    string        `envconfig:"postgres_timezone" default:"UTC"`
	AutoMigrate         bool          `envconfig:"auto_migrate" default:"true"`
	AllowedOrigins      []string      `envconfig:"allowed_origins"`
	VoteRateLimit       uint          `envconfig:"vote_rate_limit" default:"30"`
	VoteIPRateLimit     uint          `envconfig:"vote_ip_rate_limit" default:"300"`
	VoteRateWindow      time.Duration `envconfig:"vote_rate_window" default:"1m"`
	RedisAddr           string        `envconfig:"redis_addr"`
	RedisPassword       string        `envconfig:"redis_password"`
	FirebaseCredentials string        `envconfig:"firebase_credentials"`
	ReadTimeout         time.Duration `envconfig:"read_timeout" default:"15s"`
	WriteTimeout        time.Duration `envconfig:"write_timeout" default:"15s"`
	ShutdownTimeout     time.Duration `envconfig:"shutdown_timeout" default:"10s"`
}

// Load reads a .env file outside release mode, then the ASKX_* variables.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
	}

	var c Config
	if err := envconfig.Process("askx", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &c, nil
}

// IsProd reports whether the service runs with production settings.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
