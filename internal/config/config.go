package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string `env:"APP_ENV" env-default:"development"`
	AppPort        string `env:"APP_PORT" env-default:"8000"`
	DatabaseURL    string `env:"DATABASE_URL" env-required:"true"`
	MigrateOnStart bool   `env:"MIGRATIONS_ON_START" env-default:"true"`
	JWTSecret      string `env:"JWT_SECRET"`

	Paystack  Paystack
	Kafka     Kafka
	Reconcile Reconcile
}

type Paystack struct {
	SecretKey string        `env:"PAYSTACK_SECRET_KEY" env-required:"true"`
	PublicKey string        `env:"PAYSTACK_PUBLIC_KEY"`
	BaseURL   string        `env:"PAYSTACK_BASE_URL" env-default:"https://api.paystack.co"`
	Timeout   time.Duration `env:"PAYSTACK_TIMEOUT" env-default:"30s"`
	Currency  string        `env:"PAYSTACK_CURRENCY" env-default:"GHS"`
}

type Kafka struct {
	Brokers    []string `env:"KAFKA_BROKERS" env-separator:","`
	OrderTopic string   `env:"KAFKA_ORDER_TOPIC" env-default:"order-events"`
}

// Reconcile drives the background job that re-verifies pending payments.
type Reconcile struct {
	Interval time.Duration `env:"RECONCILE_INTERVAL" env-default:"1m"`
	After    time.Duration `env:"RECONCILE_AFTER" env-default:"5m"`
	Window   time.Duration `env:"RECONCILE_WINDOW" env-default:"24h"`
	Batch    int           `env:"RECONCILE_BATCH" env-default:"50"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads the given .env files (".env" when none are named), if they
// exist, and then the process environment. Variables already set in the
// environment win over the files.
func LoadConfig(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return Load()
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
