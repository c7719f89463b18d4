package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Env             string        `env:"ENV" env-default:"local"`
	Addr            string        `env:"HTTP_ADDR" env-default:":8080"`
	DatabaseURL     string        `env:"DATABASE_URL" env-required:"true"`
	JWTSecret       string        `env:"JWT_SECRET" env-required:"true"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int           `env:"MAX_UPLOAD_BYTES" env-default:"5242880"`
	CORSOrigins     string        `env:"CORS_ORIGINS" env-default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load for process start-up: a missing DATABASE_URL or JWT_SECRET is fatal.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	return cfg
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}
