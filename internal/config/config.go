// Package config provides configuration management for the AthleteGuard service.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Model       ModelConfig       `mapstructure:"model" validate:"required"`
	Chat        ChatConfig        `mapstructure:"chat" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Health      HealthConfig      `mapstructure:"health"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP facade configuration
type ServerConfig struct {
	Address             string   `mapstructure:"address" validate:"required"`
	FrontendDir         string   `mapstructure:"frontend_dir"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"gt=0"`
	ShutdownSeconds     int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	CORSAllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
}

// ModelConfig represents trained artifact and prediction cache configuration
type ModelConfig struct {
	Dir             string `mapstructure:"dir" validate:"required"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"gte=0"`
}

// ChatConfig represents text generation API configuration
type ChatConfig struct {
	APIURL         string  `mapstructure:"api_url" validate:"required,url"`
	APIToken       string  `mapstructure:"api_token"`
	Model          string  `mapstructure:"model" validate:"required"`
	MaxTokens      int     `mapstructure:"max_tokens" validate:"gt=0"`
	Temperature    float64 `mapstructure:"temperature" validate:"gte=0,lte=5"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	RetryAttempts  int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig represents the health server configuration. A zero port
// disables the listener.
type HealthConfig struct {
	Port     int `mapstructure:"port" validate:"gte=0,lte=65535"`
	GRPCPort int `mapstructure:"grpc_port" validate:"gte=0,lte=65535"`
}

// SecretsConfig represents AWS Secrets Manager configuration
type SecretsConfig struct {
	AWSEnabled bool   `mapstructure:"aws_enabled"`
	Region     string `mapstructure:"region" validate:"required_if=AWSEnabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=AWSEnabled true"`
}

// TracingConfig represents AWS X-Ray configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr" validate:"required_if=Enabled true"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// MaintenanceConfig holds cron schedules for background jobs. An empty
// schedule disables the job.
type MaintenanceConfig struct {
	CacheReportSchedule string `mapstructure:"cache_report_schedule"`
	ModelCheckSchedule  string `mapstructure:"model_check_schedule"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CacheTTL returns the prediction cache TTL. Zero disables the cache.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Model.CacheTTLSeconds) * time.Second
}

// ChatTimeout returns the text generation request timeout
func (c *Config) ChatTimeout() time.Duration {
	return time.Duration(c.Chat.TimeoutSeconds) * time.Second
}

// ReadTimeout returns the HTTP server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}
