package config

import "time"

// Environment names recognized in configuration.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// devFallbackSecret signs tokens when no secret is configured in development.
// Production startup refuses to run without an explicit secret.
const devFallbackSecret = "stackingup-local-only"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	Environment       string        `mapstructure:"environment" yaml:"environment"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	StoreTimeout      time.Duration `mapstructure:"store_timeout" yaml:"store_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":4200",
		Environment:       EnvDevelopment,
		LogLevel:          "info",
		DatabasePath:      "chat.db",
		JWTIssuer:         "chat-server",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		StoreTimeout:      5 * time.Second,
	}
}
