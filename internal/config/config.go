// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"placement/internal/observability"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	CMSBaseURL  string        `mapstructure:"CMS_BASE_URL"`
	CMSTimeout  time.Duration `mapstructure:"CMS_TIMEOUT"`
	CMSAPIToken string        `mapstructure:"CMS_API_TOKEN"`

	// CMSJWTSecret verifies user tokens locally when set. Otherwise tokens are only decoded
	// and the CMS rejects invalid ones.
	CMSJWTSecret string `mapstructure:"CMS_JWT_SECRET"`

	RedisURL        string        `mapstructure:"REDIS_URL"`
	CommentPageSize int           `mapstructure:"COMMENT_PAGE_SIZE"`
	CommentCacheTTL time.Duration `mapstructure:"COMMENT_CACHE_TTL"`
	LikeRateLimit   int           `mapstructure:"LIKE_RATE_LIMIT"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTLP_ENDPOINT"`
	OTLPInsecure        bool    `mapstructure:"OTLP_INSECURE"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// IsProduction reports whether the config targets production.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "8375")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("CMS_BASE_URL", "http://localhost:1337")
	viper.SetDefault("CMS_TIMEOUT", "10s")
	viper.SetDefault("CMS_API_TOKEN", "")
	viper.SetDefault("CMS_JWT_SECRET", "")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("COMMENT_PAGE_SIZE", 25)
	viper.SetDefault("COMMENT_CACHE_TTL", "2m")
	viper.SetDefault("LIKE_RATE_LIMIT", 30)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("OTLP_INSECURE", true)
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	config.CMSBaseURL = strings.TrimRight(strings.TrimSpace(config.CMSBaseURL), "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.CMSBaseURL == "" {
		return errors.New("CMS_BASE_URL is required")
	}
	u, err := url.Parse(c.CMSBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CMS_BASE_URL %q is not an absolute URL", c.CMSBaseURL)
	}
	if c.CommentPageSize <= 0 {
		return errors.New("COMMENT_PAGE_SIZE must be positive")
	}
	if c.CommentPageSize > 100 {
		return errors.New("COMMENT_PAGE_SIZE must not exceed 100")
	}
	if c.CMSTimeout <= 0 {
		return errors.New("CMS_TIMEOUT must be positive")
	}

	if c.IsProduction() {
		if u.Scheme != "https" {
			return errors.New("CMS_BASE_URL must use https in production")
		}
		if c.AllowedOrigins == "*" {
			return errors.New("ALLOWED_ORIGINS must not be '*' in production")
		}
	} else if c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*'. Do not use this in production.")
	}

	return nil
}

// Tracing returns the tracer settings of this BFF instance.
func (c *Config) Tracing(version string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName:    observability.DefaultServiceName,
		ServiceVersion: version,
		Environment:    c.Env,
		Enabled:        c.TracingEnabled,
		Exporter:       c.TracingExporter,
		OTLPEndpoint:   c.OTLPEndpoint,
		OTLPInsecure:   c.OTLPInsecure && !c.IsProduction(),
		SamplerRatio:   c.TracingSamplerRatio,
		CMSBaseURL:     c.CMSBaseURL,
	}
}

// Origins returns the allowed CORS origins as a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
