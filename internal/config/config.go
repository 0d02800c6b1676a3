// Package config loads runtime settings from flags, COSTINGFE_* environment
// variables, an optional YAML config file and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/1cFE/1costingfe/pkg/cost"
	"github.com/1cFE/1costingfe/pkg/defaults"
	"github.com/1cFE/1costingfe/pkg/model"
)

// EnvPrefix prefixes every environment variable, e.g. COSTINGFE_LOG_LEVEL.
const EnvPrefix = "COSTINGFE"

// Keys.
const (
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyServerPort    = "server.port"
	KeyDefaultsFile  = "defaults.file"
	KeyConstantsFile = "constants.file"
	KeyBatchWorkers  = "batch.workers"
)

// Config is the resolved runtime configuration.
type Config struct {
	Log       LogConfig    `mapstructure:"log"`
	Server    ServerConfig `mapstructure:"server"`
	Defaults  FileConfig   `mapstructure:"defaults"`
	Constants FileConfig   `mapstructure:"constants"`
	Batch     BatchConfig  `mapstructure:"batch"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// FileConfig points at an optional YAML file.
type FileConfig struct {
	File string `mapstructure:"file"`
}

// BatchConfig bounds concurrent evaluations in compare and sweep.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyDefaultsFile, "")
	v.SetDefault(KeyConstantsFile, "")
	v.SetDefault(KeyBatchWorkers, 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads environment variables from the given .env files, or
// ./.env when none are given. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads file (when set) into v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%s: %d out of range", KeyServerPort, c.Server.Port)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("%s: must be >= 0, got %d", KeyBatchWorkers, c.Batch.Workers)
	}
	return nil
}

// ModelOptions loads the configured defaults table and constants file.
// Unset files leave the built-in values in place.
func (c *Config) ModelOptions() ([]model.Option, error) {
	var opts []model.Option
	if c.Defaults.File != "" {
		t, err := defaults.Load(c.Defaults.File)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithDefaults(t))
	}
	if c.Constants.File != "" {
		k, err := cost.LoadConstants(c.Constants.File)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithConstants(k))
	}
	return opts, nil
}
