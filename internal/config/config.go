// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret              string  `mapstructure:"JWT_SECRET"`
	Port                   string  `mapstructure:"PORT"`
	DBHost                 string  `mapstructure:"DB_HOST"`
	DBPort                 string  `mapstructure:"DB_PORT"`
	DBUser                 string  `mapstructure:"DB_USER"`
	DBPassword             string  `mapstructure:"DB_PASSWORD"`
	DBName                 string  `mapstructure:"DB_NAME"`
	DBSSLMode              string  `mapstructure:"DB_SSLMODE"`
	RedisURL               string  `mapstructure:"REDIS_URL"`
	AllowedOrigins         string  `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags           string  `mapstructure:"FEATURE_FLAGS"`
	Env                    string  `mapstructure:"APP_ENV"`
	LogLevel               string  `mapstructure:"LOG_LEVEL"`
	FlagAutoRemoveAt       int     `mapstructure:"FLAG_AUTO_REMOVE_AT"`
	AdminSessionTTLMinutes int     `mapstructure:"ADMIN_SESSION_TTL_MINUTES"`
	RateLimitPerMinute     int     `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	TracingEnabled         bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter        string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint           string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio    float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("PORT", "8375")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "aura")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("FLAG_AUTO_REMOVE_AT", 5)
	viper.SetDefault("ADMIN_SESSION_TTL_MINUTES", 60)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 0.1)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.FlagAutoRemoveAt < 1 {
		return errors.New("FLAG_AUTO_REMOVE_AT must be at least 1")
	}
	if c.AdminSessionTTLMinutes < 1 {
		return errors.New("ADMIN_SESSION_TTL_MINUTES must be at least 1")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// IsProduction reports whether the app is running with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
