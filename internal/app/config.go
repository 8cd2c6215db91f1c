package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	TextGen   TextGenConfig
	Telemetry TelemetryConfig
	HTTP      HTTPConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

type LogConfig struct {
	Mode      string // development | production | test
	Level     string
	Redaction bool
	HashSalt  string
}

type DatabaseConfig struct {
	Driver          string // postgres | sqlite
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	CacheTTL  time.Duration
	KeyPrefix string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
	AccessTTL time.Duration
}

type TextGenConfig struct {
	Provider   string // gemini | openai
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type TelemetryConfig struct {
	OtelEnabled    bool
	Endpoint       string
	Insecure       bool
	Headers        string
	SampleRatio    float64
	MetricsEnabled bool
	MetricsAddr    string
}

type HTTPConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
}

const devJWTSecret = "dev-only-insecure-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "learnpath-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.version", "dev")

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.redaction", true)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "learnpath")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.cache_ttl", 5*time.Minute)
	v.SetDefault("redis.key_prefix", "learnpath:")

	v.SetDefault("auth.jwt_secret", devJWTSecret)
	v.SetDefault("auth.issuer", "learnpath")
	v.SetDefault("auth.access_ttl", time.Hour)

	v.SetDefault("textgen.provider", "gemini")
	v.SetDefault("textgen.timeout", 60*time.Second)
	v.SetDefault("textgen.max_retries", 0)

	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.metrics_enabled", true)

	v.SetDefault("http.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("http.max_body_bytes", int64(1<<20))
}

// LoadConfig reads config.yaml from the first matching search path (the
// file is optional), applies LEARNPATH_* environment overrides and validates
// the result. Nil paths searches ".", "./config" and "/etc/learnpath".
func LoadConfig(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/etc/learnpath"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEARNPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		Log: LogConfig{
			Mode:      v.GetString("log.mode"),
			Level:     v.GetString("log.level"),
			Redaction: v.GetBool("log.redaction"),
			HashSalt:  v.GetString("log.hash_salt"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			DSN:             v.GetString("database.dsn"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			CacheTTL:  v.GetDuration("redis.cache_ttl"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			Issuer:    v.GetString("auth.issuer"),
			AccessTTL: v.GetDuration("auth.access_ttl"),
		},
		TextGen: TextGenConfig{
			Provider:   strings.ToLower(v.GetString("textgen.provider")),
			APIKey:     v.GetString("textgen.api_key"),
			BaseURL:    v.GetString("textgen.base_url"),
			Model:      v.GetString("textgen.model"),
			Timeout:    v.GetDuration("textgen.timeout"),
			MaxRetries: v.GetInt("textgen.max_retries"),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:    v.GetBool("telemetry.otel_enabled"),
			Endpoint:       v.GetString("telemetry.endpoint"),
			Insecure:       v.GetBool("telemetry.insecure"),
			Headers:        v.GetString("telemetry.headers"),
			SampleRatio:    v.GetFloat64("telemetry.sample_ratio"),
			MetricsEnabled: v.GetBool("telemetry.metrics_enabled"),
			MetricsAddr:    v.GetString("telemetry.metrics_addr"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:  splitList(v.GetStringSlice("http.cors_origins")),
			MaxBodyBytes: v.GetInt64("http.max_body_bytes"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	switch c.TextGen.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("textgen.provider must be gemini or openai, got %q", c.TextGen.Provider)
	}
	if c.TextGen.MaxRetries < 0 {
		return fmt.Errorf("textgen.max_retries cannot be negative")
	}
	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("auth.access_ttl must be positive")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be between 0 and 1, got %f", c.Telemetry.SampleRatio)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be positive")
	}

	if c.App.Env == "production" {
		if c.Auth.JWTSecret == devJWTSecret || len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be set to at least 32 characters in production")
		}
		if c.TextGen.APIKey == "" {
			return fmt.Errorf("textgen.api_key is required in production")
		}
		for _, origin := range c.HTTP.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_origins cannot be '*' in production")
			}
		}
	}
	return nil
}
