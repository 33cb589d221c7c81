package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset      DatasetConfig      `yaml:"dataset" mapstructure:"dataset"`
	Registration RegistrationConfig `yaml:"registration" mapstructure:"registration"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// DatasetConfig configures the open-data facility endpoint.
type DatasetConfig struct {
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint"`
	RegionField  string `yaml:"region_field" mapstructure:"region_field"`
	RegionFilter string `yaml:"region_filter" mapstructure:"region_filter"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
}

// RegistrationConfig holds the group registration endpoint and credentials.
type RegistrationConfig struct {
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	APIUsername string  `yaml:"api_username" mapstructure:"api_username"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CHILDCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.endpoint", "https://data.ny.gov/resource/fymg-3wv3.json")
	v.SetDefault("dataset.region_field", "county")
	v.SetDefault("dataset.region_filter", "Erie")
	v.SetDefault("dataset.timeout_secs", 30)
	v.SetDefault("dataset.user_agent", "childcare-sync/1.0")
	v.SetDefault("registration.endpoint", "")
	v.SetDefault("registration.api_key", "")
	v.SetDefault("registration.api_username", "system")
	v.SetDefault("registration.timeout_secs", 30)
	v.SetDefault("registration.rate_per_sec", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ValidatePreview checks the settings needed to fetch and transform.
func (c *Config) ValidatePreview() error {
	var missing []string
	if c.Dataset.Endpoint == "" {
		missing = append(missing, "dataset.endpoint (CHILDCARE_DATASET_ENDPOINT)")
	}
	if c.Dataset.RegionField != "" && c.Dataset.RegionFilter == "" {
		missing = append(missing, "dataset.region_filter (CHILDCARE_DATASET_REGION_FILTER)")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Dataset.TimeoutSecs < 0 {
		return eris.New("config: dataset.timeout_secs must not be negative")
	}
	return nil
}

// ValidateSync checks the settings needed for a full run, including the
// registration credentials.
func (c *Config) ValidateSync() error {
	if err := c.ValidatePreview(); err != nil {
		return err
	}

	var missing []string
	if c.Registration.Endpoint == "" {
		missing = append(missing, "registration.endpoint (CHILDCARE_REGISTRATION_ENDPOINT)")
	}
	if c.Registration.APIKey == "" {
		missing = append(missing, "registration.api_key (CHILDCARE_REGISTRATION_API_KEY)")
	}
	if c.Registration.APIUsername == "" {
		missing = append(missing, "registration.api_username (CHILDCARE_REGISTRATION_API_USERNAME)")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Registration.TimeoutSecs < 0 {
		return eris.New("config: registration.timeout_secs must not be negative")
	}
	if c.Registration.RatePerSec < 0 {
		return eris.New("config: registration.rate_per_sec must not be negative")
	}
	return nil
}

// Redacted returns a copy safe to print: secrets are masked.
func (c *Config) Redacted() Config {
	out := *c
	if out.Registration.APIKey != "" {
		out.Registration.APIKey = "********"
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
