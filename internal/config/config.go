package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Transaction amount bounds, exact decimal. Floats are never used for
	// money anywhere in the service.
	MinTransactionAmount decimal.Decimal `env:"MIN_TRANSACTION_AMOUNT" envDefault:"0.01"`
	MaxTransactionAmount decimal.Decimal `env:"MAX_TRANSACTION_AMOUNT" envDefault:"1000000"`

	// Upper bound on waiting for account row locks, applied with
	// SET LOCAL lock_timeout inside each unit of work.
	LockTimeoutMS int `env:"LOCK_TIMEOUT_MS" envDefault:"3000"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.MinTransactionAmount.Sign() <= 0 {
		return nil, fmt.Errorf("config.Load: MIN_TRANSACTION_AMOUNT must be positive, got %s", cfg.MinTransactionAmount)
	}
	if cfg.MaxTransactionAmount.LessThan(cfg.MinTransactionAmount) {
		return nil, fmt.Errorf("config.Load: MAX_TRANSACTION_AMOUNT %s is below MIN_TRANSACTION_AMOUNT %s",
			cfg.MaxTransactionAmount, cfg.MinTransactionAmount)
	}
	if cfg.LockTimeoutMS <= 0 {
		return nil, fmt.Errorf("config.Load: LOCK_TIMEOUT_MS must be positive, got %d", cfg.LockTimeoutMS)
	}

	return &cfg, nil
}
