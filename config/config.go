package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/healthcheck/internal/healthcheck"
	"github.com/angeloszaimis/healthcheck/pkg/duration"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	DefaultTimeout  = "1s"
	DefaultRetries  = 5
	DefaultInterval = "1s"
	DefaultPort     = 3030
)

var defaultPaths = []string{"./config", "."}

// Config holds the health checker settings. Durations stay in their string
// form until HealthCheck converts them.
type Config struct {
	Hosts          []string `mapstructure:"-"`
	Timeout        string   `mapstructure:"timeout"`
	Retries        int      `mapstructure:"retries"`
	Interval       string   `mapstructure:"interval"`
	SkipFinalSleep bool     `mapstructure:"skip_final_sleep"`
	Concurrency    int      `mapstructure:"concurrency"`
	LogLevel       string   `mapstructure:"log_level"`
	Environment    string   `mapstructure:"environment"`
}

// TestServerConfig holds the settings of the flaky test server.
type TestServerConfig struct {
	Port          int    `mapstructure:"port"`
	FailCount     int    `mapstructure:"fail_count"`
	ResponseDelay int    `mapstructure:"response_delay"`
	LogLevel      string `mapstructure:"log_level"`
	Environment   string `mapstructure:"environment"`
}

// Load reads healthcheck.yaml and .env from paths (./config and . when none
// are given), applies environment overrides and validates the result.
func Load(paths ...string) (*Config, error) {
	v, err := newViper("healthcheck", paths)
	if err != nil {
		return nil, err
	}

	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("retries", DefaultRetries)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("skip_final_sleep", false)
	v.SetDefault("concurrency", 0)
	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("environment", EnvDev)
	if err := v.BindEnv("hosts"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}
	cfg.Hosts = parseHosts(v.Get("hosts"))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// LoadTestServer reads testserver.yaml and .env from paths the same way Load does.
func LoadTestServer(paths ...string) (*TestServerConfig, error) {
	v, err := newViper("testserver", paths)
	if err != nil {
		return nil, err
	}

	v.SetDefault("port", DefaultPort)
	v.SetDefault("fail_count", 0)
	v.SetDefault("response_delay", 0)
	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("environment", EnvDev)

	var cfg TestServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func newViper(name string, paths []string) (*viper.Viper, error) {
	if len(paths) == 0 {
		paths = defaultPaths
	}

	if err := loadDotEnv(paths); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	return v, nil
}

// loadDotEnv loads the first .env found in paths. Variables already present
// in the environment win.
func loadDotEnv(paths []string) error {
	for _, p := range paths {
		file := filepath.Join(p, ".env")

		err := godotenv.Load(file)
		if err == nil {
			slog.Debug("loaded env file", slog.String("file", file))
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	return nil
}

// parseHosts accepts a comma-separated string or a YAML list and trims every entry.
func parseHosts(raw any) []string {
	var items []string

	switch v := raw.(type) {
	case nil:
	case string:
		if strings.TrimSpace(v) != "" {
			items = strings.Split(v, ",")
		}
	case []string:
		items = v
	case []any:
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
	default:
		items = []string{fmt.Sprint(v)}
	}

	hosts := make([]string, 0, len(items))
	for _, item := range items {
		hosts = append(hosts, strings.TrimSpace(item))
	}

	return hosts
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Hosts,
			validation.Required,
			validation.Each(validation.Required),
		),
		validation.Field(&c.Timeout,
			validation.Required,
			validation.By(validatePositiveDuration),
		),
		validation.Field(&c.Interval,
			validation.Required,
			validation.By(validateDuration),
		),
		validation.Field(&c.Retries, validation.Min(0)),
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
	)
}

// HealthCheck converts the validated settings into the checker's input.
func (c *Config) HealthCheck() (healthcheck.Config, error) {
	timeout, err := duration.Parse(c.Timeout)
	if err != nil {
		return healthcheck.Config{}, fmt.Errorf("timeout: %w", err)
	}

	interval, err := duration.Parse(c.Interval)
	if err != nil {
		return healthcheck.Config{}, fmt.Errorf("interval: %w", err)
	}

	return healthcheck.Config{
		Hosts:    c.Hosts,
		Timeout:  timeout,
		Retries:  c.Retries,
		Interval: interval,
	}, nil
}

func (c *TestServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&c.FailCount, validation.Min(0)),
		validation.Field(&c.ResponseDelay, validation.Min(0)),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
	)
}

// Addr is the listen address for all interfaces on Port.
func (c *TestServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MaxResponseDelay is the upper bound of the random per-response delay.
func (c *TestServerConfig) MaxResponseDelay() time.Duration {
	return time.Duration(c.ResponseDelay) * time.Millisecond
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := duration.Parse(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 500ms, 2s, 1m)")
	}

	return nil
}

func validatePositiveDuration(value interface{}) error {
	if err := validateDuration(value); err != nil {
		return err
	}

	if d, _ := duration.Parse(value.(string)); d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be greater than zero")
	}

	return nil
}
