package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "./configs/converter.yaml"

	PathEnv           = "CONVERTER_CONFIG"
	APIAddressEnv     = "CONVERTER_API_ADDRESS"
	LogLevelEnv       = "CONVERTER_LOG_LEVEL"
	LogOutputEnv      = "CONVERTER_LOG_OUTPUT"
	HistoryEnabledEnv = "CONVERTER_HISTORY_ENABLED"
)

const (
	_apiAddressDefault         = "https://economia.awesomeapi.com.br/json"
	_rateLimitPerMinuteDefault = 60
	_logLevelDefault           = "warn"
	_historyLimitDefault       = 20
)

type APIConfig struct {
	Address            string        `yaml:"address" validate:"required,url"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" validate:"gt=0"`
	Timeout            time.Duration `yaml:"timeout" validate:"gte=0"` // 0 waits forever
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output"` // empty turns logging off
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit" validate:"gt=0"`
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

func (c *Config) Setup() {
	c.API.Address = cmp.Or(c.API.Address, _apiAddressDefault)
	if c.API.RateLimitPerMinute <= 0 {
		c.API.RateLimitPerMinute = _rateLimitPerMinuteDefault
	}
	if c.API.Timeout < 0 {
		c.API.Timeout = 0
	}

	c.Log.Level = cmp.Or(c.Log.Level, _logLevelDefault)

	if c.History.Limit <= 0 {
		c.History.Limit = _historyLimitDefault
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: invalid config", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(APIAddressEnv); v != "" {
		c.API.Address = v
	}
	if v := os.Getenv(LogLevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(LogOutputEnv); v != "" {
		c.Log.Output = v
	}
	if v := os.Getenv(HistoryEnabledEnv); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: can't parse %s", err, HistoryEnabledEnv)
		}
		c.History.Enabled = enabled
	}
	return nil
}

// Path returns the config file location, CONVERTER_CONFIG wins over the
// default.
func Path() string {
	return cmp.Or(os.Getenv(PathEnv), DefaultPath)
}

// Load reads filename, applies environment overrides and defaults and
// validates the result. A missing file is not an error.
func Load(filename string) (Config, error) {
	var cfg Config
	input, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("%w: can't read file", err)
	default:
		if err := yaml.Unmarshal(input, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: can't unmarshal config", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	cfg.Setup()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
