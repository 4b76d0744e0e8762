package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/credlane/credlane/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logging LoggingConfig `validate:"required"`
	Ledger  LedgerConfig  `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// LedgerConfig tunes the transactional retry behaviour against the
// ledger store. A conflicted transaction is retried from scratch up to
// MaxTxRetries times before the operation is surfaced as conflicted.
type LedgerConfig struct {
	MaxTxRetries         int           `mapstructure:"max_tx_retries" validate:"min=0"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	TxTimeout            time.Duration `mapstructure:"tx_timeout"`
}

func NewConfig() (*Configuration, error) {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/credlane")

	v.SetEnvPrefix("CREDLANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("ledger.max_tx_retries", 3)
	v.SetDefault("ledger.retry_initial_interval", 10*time.Millisecond)
	v.SetDefault("ledger.retry_max_interval", 250*time.Millisecond)
	v.SetDefault("ledger.tx_timeout", 10*time.Second)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Logging.Level.Validate()
}

// GetDefaultConfig returns a configuration suitable for local development
// and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: types.LogLevelInfo},
		Ledger: LedgerConfig{
			MaxTxRetries:         3,
			RetryInitialInterval: 10 * time.Millisecond,
			RetryMaxInterval:     250 * time.Millisecond,
			TxTimeout:            10 * time.Second,
		},
	}
}
