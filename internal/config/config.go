// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/autocentru/dealer/pkg/constants"
	"github.com/autocentru/dealer/pkg/finance"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the dealer back office.
type Configuration struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Admin    AdminConfig    `yaml:"admin,omitempty"`
	Finance  FinanceConfig  `yaml:"finance,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Address      string `yaml:"address,omitempty"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes,omitempty"`
}

// DatabaseConfig holds the connection string for the Postgres data store.
// An empty URL makes the server fall back to the in-memory store.
type DatabaseConfig struct {
	URL string `yaml:"url,omitempty"`
}

// RedisConfig holds cache parameters. An empty address selects the
// in-process cache.
type RedisConfig struct {
	Address    string `yaml:"address,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds,omitempty"`
}

// AdminConfig holds the bearer token gating the admin endpoints. An empty
// token disables them.
type AdminConfig struct {
	Token string `yaml:"token,omitempty"`
}

// FinanceConfig selects calculator behavior.
type FinanceConfig struct {
	ZeroRatePolicy string `yaml:"zeroRatePolicy,omitempty"` // guard, divide
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// LoadConfiguration loads the YAML-formatted configuration at configPath.
// A missing file is not an error; defaults and environment overrides still
// apply so the binaries can run from environment variables alone.
func LoadConfiguration(configPath string) (*Configuration, error) {
	var configuration Configuration

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			viper.SetConfigFile(configPath)
			viper.AutomaticEnv()
			viper.SetConfigType("yml")

			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
			if err := viper.Unmarshal(&configuration); err != nil {
				return nil, fmt.Errorf("unable to decode into struct, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error checking config file, %s", err)
		}
	}

	configuration.applyEnvOverrides()
	configuration.applyDefaults()
	return &configuration, nil
}

// applyEnvOverrides lets deployment environments inject credentials without
// a config file. Environment values beat file values.
func (conf *Configuration) applyEnvOverrides() {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		conf.Database.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		conf.Redis.Address = addr
	}
	if token := os.Getenv("ADMIN_TOKEN"); token != "" {
		conf.Admin.Token = token
	}
}

func (conf *Configuration) applyDefaults() {
	if conf.Server.Address == "" {
		conf.Server.Address = constants.DefaultServerAddress
	}
	if conf.Server.MaxBodyBytes <= 0 {
		conf.Server.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	if conf.Redis.TTLSeconds <= 0 {
		conf.Redis.TTLSeconds = constants.DefaultCacheTTLSeconds
	}
}

// ValidateConfiguration checks settings that are legal but likely
// unintended and returns human-readable warnings.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Database.URL == "" {
		warnings = append(warnings, "database.url is not set; using the in-memory store (data is lost on restart)")
	}
	if conf.Admin.Token == "" {
		warnings = append(warnings, "admin.token is not set; admin endpoints are disabled")
	}
	if _, err := finance.ParseZeroRatePolicy(conf.Finance.ZeroRatePolicy); err != nil {
		warnings = append(warnings, fmt.Sprintf("finance.zeroRatePolicy %q is unknown; falling back to guard", conf.Finance.ZeroRatePolicy))
	}
	return warnings
}

// ZeroRatePolicy resolves the configured calculator policy, defaulting to
// guard when unset or unknown.
func (conf *Configuration) ZeroRatePolicy() finance.ZeroRatePolicy {
	policy, err := finance.ParseZeroRatePolicy(conf.Finance.ZeroRatePolicy)
	if err != nil {
		return finance.ZeroRatePolicyGuard
	}
	return policy
}
