package config

import (
	"strings"

	ierr "github.com/revboard/revboard/internal/errors"
	"github.com/revboard/revboard/internal/types"
	"github.com/spf13/viper"
)

// Configuration is the full application configuration, loaded from
// config files and environment variables via viper.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	Merchants  []MerchantConfig `mapstructure:"merchants"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// AnalyticsConfig tunes the aggregation pipeline. The concurrency caps are a
// resource-pooling policy around upstream calls, not a correctness knob.
type AnalyticsConfig struct {
	Timezone            string `mapstructure:"timezone"`
	DisplayCurrency     string `mapstructure:"display_currency"`
	RatesBaseURL        string `mapstructure:"rates_base_url"`
	PageLimit           int64  `mapstructure:"page_limit"`
	FetchSlices         int    `mapstructure:"fetch_slices"`
	FetchConcurrency    int    `mapstructure:"fetch_concurrency"`
	MerchantConcurrency int    `mapstructure:"merchant_concurrency"`
}

// MerchantConfig is one payment-provider account. Credentials arrive as an
// explicit list, never by scanning process environment keys.
type MerchantConfig struct {
	Name   string `mapstructure:"name"`
	APIKey string `mapstructure:"api_key"`
}

// NewConfig loads configuration from ./config.yaml (optional) and
// REVBOARD_* environment variables
func NewConfig() (*Configuration, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("revboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrValidation)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "api")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("analytics.timezone", "UTC")
	v.SetDefault("analytics.display_currency", "USD")
	v.SetDefault("analytics.rates_base_url", "https://api.exchangerate-api.com")
	v.SetDefault("analytics.page_limit", 100)
	v.SetDefault("analytics.fetch_slices", 1)
	v.SetDefault("analytics.fetch_concurrency", 4)
	v.SetDefault("analytics.merchant_concurrency", 4)
}

// Validate checks configuration invariants
func (c *Configuration) Validate() error {
	if err := types.ValidateTimezone(c.Analytics.Timezone); err != nil {
		return err
	}
	if c.Analytics.PageLimit <= 0 || c.Analytics.PageLimit > 100 {
		return ierr.NewError("page_limit must be between 1 and 100").
			WithHint("Upstream list endpoints cap pages at 100 records").
			Mark(ierr.ErrValidation)
	}
	if c.Analytics.FetchSlices < 1 {
		return ierr.NewError("fetch_slices must be >= 1").
			Mark(ierr.ErrValidation)
	}
	if c.Analytics.FetchConcurrency < 1 || c.Analytics.MerchantConcurrency < 1 {
		return ierr.NewError("concurrency caps must be >= 1").
			WithHint("Set analytics.fetch_concurrency and analytics.merchant_concurrency to positive values").
			Mark(ierr.ErrValidation)
	}
	for i, m := range c.Merchants {
		if m.APIKey == "" {
			return ierr.NewError("merchant api_key is required").
				WithReportableDetails(map[string]interface{}{
					"merchant_index": i,
					"merchant_name":  m.Name,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// GetDefaultConfig returns a minimal configuration for scripts and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "local"},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Analytics: AnalyticsConfig{
			Timezone:            "UTC",
			DisplayCurrency:     "USD",
			RatesBaseURL:        "https://api.exchangerate-api.com",
			PageLimit:           100,
			FetchSlices:         1,
			FetchConcurrency:    4,
			MerchantConcurrency: 4,
		},
	}
}
