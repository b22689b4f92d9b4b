package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	ErrMissingJWTSigningKey = errors.New("api.jwt_signing_key is required")
	ErrMissingPostgresHost  = errors.New("postgres.host is required")
)

type AppConfig struct {
	API       *APIConfig
	Gin       *GinConfig
	Postgres  *PostgresConfig
	Redis     *RedisConfig
	RateLimit *RateLimitConfig
}

type APIConfig struct {
	Environment        string
	BaseURL            string
	Port               string
	LogLevel           string
	AllowedCORSDomains []string
	JWTSigningKey      string
	JWTTTL             time.Duration
}

type GinConfig struct {
	Mode string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

// RedisConfig points at the store used by the login rate limiter. An empty
// Addr disables the limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	LoginAttempts int
	Window        time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_ttl", 12*time.Hour)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rate_limit.login_attempts", 10)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Load reads the YAML file at path. Every key can be overridden by an
// environment variable named after it, e.g. POSTGRES_HOST for postgres.host.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := fromViper(v)
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func fromViper(v *viper.Viper) *AppConfig {
	return &AppConfig{
		API: &APIConfig{
			Environment:        v.GetString("api.environment"),
			BaseURL:            v.GetString("api.base_url"),
			Port:               v.GetString("api.port"),
			LogLevel:           v.GetString("api.log_level"),
			AllowedCORSDomains: v.GetStringSlice("api.allowed_cors_domains"),
			JWTSigningKey:      v.GetString("api.jwt_signing_key"),
			JWTTTL:             v.GetDuration("api.jwt_ttl"),
		},
		Gin: &GinConfig{
			Mode: v.GetString("gin.mode"),
		},
		Postgres: &PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			DB:       v.GetString("postgres.db"),
			SSLMode:  v.GetString("postgres.ssl_mode"),
		},
		Redis: &RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: &RateLimitConfig{
			LoginAttempts: v.GetInt("rate_limit.login_attempts"),
			Window:        v.GetDuration("rate_limit.window"),
		},
	}
}

func (c *AppConfig) Validate() error {
	if c.API.JWTSigningKey == "" {
		return ErrMissingJWTSigningKey
	}
	if c.Postgres.Host == "" {
		return ErrMissingPostgresHost
	}

	return nil
}

// Watch re-reads the file at path whenever it changes and hands the new
// api.log_level to onLogLevel. Other keys need a restart.
func Watch(path string, onLogLevel func(level string)) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if level := v.GetString("api.log_level"); level != "" {
			onLogLevel(level)
		}
	})
	v.WatchConfig()
}
