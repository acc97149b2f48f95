package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Keycloak   KeycloakConfig
	Redis      RedisConfig
	Monitoring MonitoringConfig
	FileStore  FileStoreConfig
	Classifier ClassifierConfig
	Retention  RetentionConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	TimescaleDB PostgresConfig `mapstructure:"timescaledb"`
	AppDB       PostgresConfig `mapstructure:"postgres_app"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// KeycloakConfig enables bearer-token auth on mutating routes when URL is set.
type KeycloakConfig struct {
	URL          string `mapstructure:"url"`
	Realm        string `mapstructure:"realm"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Enabled reports whether token checks are configured.
func (c KeycloakConfig) Enabled() bool {
	return c.URL != ""
}

// RedisConfig backs the application-state store. An empty host selects the in-memory store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MonitoringConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

type FileStoreConfig struct {
	BasePath    string `mapstructure:"base_path"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

type ClassifierConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// TrendSource is "store" (persisted readings) or "classifier" (GET /trend).
	TrendSource string `mapstructure:"trend_source"`
}

type RetentionConfig struct {
	MaxAge   time.Duration `mapstructure:"max_age"`
	Interval time.Duration `mapstructure:"interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	TrendSourceStore      = "store"
	TrendSourceClassifier = "classifier"
)

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	return load(viper.New(), "./config")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	v.SetEnvPrefix("PUMPGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Load config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.timescaledb.host", "localhost")
	v.SetDefault("database.timescaledb.port", 5432)
	v.SetDefault("database.timescaledb.sslmode", "disable")
	v.SetDefault("database.postgres_app.host", "localhost")
	v.SetDefault("database.postgres_app.port", 5432)
	v.SetDefault("database.postgres_app.sslmode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Monitoring defaults
	v.SetDefault("monitoring.log_level", "info")
	v.SetDefault("monitoring.metrics_enabled", true)

	// FileStore defaults
	v.SetDefault("filestore.base_path", "./data/uploads")
	v.SetDefault("filestore.max_file_size", 10*1024*1024) // 10MB

	// Classifier defaults
	v.SetDefault("classifier.base_url", "http://localhost:5000")
	v.SetDefault("classifier.timeout", "30s")
	v.SetDefault("classifier.trend_source", TrendSourceStore)

	// Retention defaults, zero disables the purge loop
	v.SetDefault("retention.max_age", "720h")
	v.SetDefault("retention.interval", "0s")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	// keycloak.* are read from env only, register them so AutomaticEnv picks them up
	v.SetDefault("keycloak.url", "")
	v.SetDefault("keycloak.realm", "")
	v.SetDefault("keycloak.client_id", "")
	v.SetDefault("keycloak.client_secret", "")
}

func validateConfig(config *Config) error {
	if config.Database.TimescaleDB.Host == "" {
		return fmt.Errorf("timescaledb host is required")
	}
	if config.Database.AppDB.Host == "" {
		return fmt.Errorf("postgres app host is required")
	}
	if config.Classifier.BaseURL == "" {
		return fmt.Errorf("classifier base URL is required")
	}
	if config.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier timeout must be positive")
	}
	switch config.Classifier.TrendSource {
	case TrendSourceStore, TrendSourceClassifier:
	default:
		return fmt.Errorf("unknown trend source %q", config.Classifier.TrendSource)
	}
	if config.FileStore.BasePath == "" {
		return fmt.Errorf("filestore base path is required")
	}
	if config.FileStore.MaxFileSize <= 0 {
		return fmt.Errorf("filestore max file size must be positive")
	}
	if config.Retention.Interval < 0 || config.Retention.MaxAge < 0 {
		return fmt.Errorf("retention durations must not be negative")
	}
	if config.Keycloak.Enabled() && (config.Keycloak.Realm == "" || config.Keycloak.ClientID == "") {
		return fmt.Errorf("keycloak realm and client id are required when keycloak url is set")
	}
	return nil
}
