package config

import (
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	SnapshotPath    string `env:"ATM_SNAPSHOT_PATH" envDefault:"accounts.json"`
	LogLevel        string `env:"ATM_LOG_LEVEL" envDefault:"warn"`
	LogFile         string `env:"ATM_LOG_FILE"`
	MetricsTextfile string `env:"ATM_METRICS_TEXTFILE"`
	OperatorWorkers int    `env:"ATM_OPERATOR_WORKERS" envDefault:"1"`
	CurrencyLabel   string `env:"ATM_CURRENCY_LABEL" envDefault:"INR"`
}

// ProcessEnvironmentVariables builds the Config from the environment. A .env
// file in the working directory is applied first when present; variables
// already set in the environment win.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}

	if cfg.SnapshotPath == "" {
		return nil, errors.New("ATM_SNAPSHOT_PATH must not be empty")
	}
	if cfg.OperatorWorkers < 1 {
		cfg.OperatorWorkers = 1
	}

	return cfg, nil
}
