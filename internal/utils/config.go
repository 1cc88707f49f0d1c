package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	envPrefix = "FOODGRAM"

	sslModeDisable    = "disable"
	sslModeRequire    = "require"
	sslModeVerifyFull = "verify-full"

	minRowsPerPage = 1
	maxRowsPerPage = 60
)

type Config struct {
	// Application
	AppHost  string `yaml:"APP_HOST" mapstructure:"APP_HOST"`
	AppPort  string `yaml:"APP_PORT" mapstructure:"APP_PORT"`
	AppEnv   string `yaml:"APP_ENV" mapstructure:"APP_ENV"`
	LogLevel string `yaml:"LOG_LEVEL" mapstructure:"LOG_LEVEL"`

	// Database configuration
	DBHost     string `yaml:"DB_HOST" mapstructure:"DB_HOST"`
	DBPort     string `yaml:"DB_PORT" mapstructure:"DB_PORT"`
	DBUser     string `yaml:"DB_USER" mapstructure:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD" mapstructure:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME" mapstructure:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSL_MODE" mapstructure:"DB_SSL_MODE"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET" mapstructure:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES" mapstructure:"JWT_TTL_MINUTES"`

	// AWS S3 configuration, local disk under MEDIA_ROOT when the bucket is empty
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET" mapstructure:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION" mapstructure:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY" mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY" mapstructure:"AWS_SECRET_KEY"`
	MediaRoot    string `yaml:"MEDIA_ROOT" mapstructure:"MEDIA_ROOT"`

	// Shopping list documents
	ReportRowsPerPage int `yaml:"REPORT_ROWS_PER_PAGE" mapstructure:"REPORT_ROWS_PER_PAGE"`

	// HTTP middleware, a RATE_LIMIT_MAX of 0 disables the limiter
	RateLimitMax   int    `yaml:"RATE_LIMIT_MAX" mapstructure:"RATE_LIMIT_MAX"`
	AllowedOrigins string `yaml:"ALLOWED_ORIGINS" mapstructure:"ALLOWED_ORIGINS"`
}

var defaults = map[string]interface{}{
	"APP_HOST":             "0.0.0.0",
	"APP_PORT":             "8080",
	"APP_ENV":              "production",
	"LOG_LEVEL":            "info",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "foodgram",
	"DB_PASSWORD":          "foodgram",
	"DB_NAME":              "foodgram",
	"DB_SSL_MODE":          sslModeDisable,
	"JWT_SECRET":           "",
	"JWT_TTL_MINUTES":      60 * 24,
	"AWS_S3_BUCKET":        "",
	"AWS_S3_REGION":        "",
	"AWS_ACCESS_KEY":       "",
	"AWS_SECRET_KEY":       "",
	"MEDIA_ROOT":           "./media",
	"REPORT_ROWS_PER_PAGE": 21,
	"RATE_LIMIT_MAX":       20,
	"ALLOWED_ORIGINS":      "*",
}

// LoadConfig reads the YAML file at path and applies FOODGRAM_* environment
// overrides on top of it. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileValues := map[string]interface{}{}
		if err := yaml.Unmarshal(file, &fileValues); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		for key, value := range fileValues {
			v.SetDefault(key, value)
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "read %s", path)
	}

	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.DBSSLMode {
	case sslModeDisable, sslModeRequire, sslModeVerifyFull:
	default:
		return fmt.Errorf("DB SSL mode is invalid: %s", cfg.DBSSLMode)
	}
	if _, err := strconv.Atoi(cfg.AppPort); err != nil {
		return fmt.Errorf("APP_PORT is invalid: %s", cfg.AppPort)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.JWTTTLMinutes <= 0 {
		return fmt.Errorf("JWT_TTL_MINUTES must be positive: %d", cfg.JWTTTLMinutes)
	}
	if cfg.ReportRowsPerPage < minRowsPerPage || cfg.ReportRowsPerPage > maxRowsPerPage {
		return fmt.Errorf("REPORT_ROWS_PER_PAGE must be between %d and %d: %d",
			minRowsPerPage, maxRowsPerPage, cfg.ReportRowsPerPage)
	}
	if cfg.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative: %d", cfg.RateLimitMax)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) ListenAddr() string {
	return c.AppHost + ":" + c.AppPort
}
