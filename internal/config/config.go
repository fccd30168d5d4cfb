// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/aladhan"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	ServerAddress  string
	JWTSecret      string
	DatabaseURL    string
	MigrationsPath string

	Redis   RedisConfig
	MQTT    MQTTConfig
	Storage StorageConfig
	Logging LoggingConfig
	Prayer  PrayerConfig

	AdminEmail    string
	AdminPassword string
}

type RedisConfig struct {
	Address  string
	Username string
	Password string
}

type MQTTConfig struct {
	BrokerURL string
	Topic     string
}

type StorageConfig struct {
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
	ExportDir       string
}

type LoggingConfig struct {
	Level  string
	Format string // json|console
}

// PrayerConfig covers the upstream provider and the site defaults.
type PrayerConfig struct {
	Home           model.Location
	Method         int
	AladhanBaseURL string
	AladhanTimeout time.Duration
	SettingsTTL    time.Duration
	DayCacheTTL    time.Duration
	MonthCacheTTL  time.Duration
}

const (
	defaultServerAddress  = ":8080"
	defaultMigrationsPath = "./migrations"
	defaultMQTTTopic      = "masjid/prayer-times"
	defaultExportDir      = "./exports"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"

	// Chicago, ISNA
	defaultLatitude  = 41.8781
	defaultLongitude = -87.6298
	defaultMethod    = 2

	defaultAladhanTimeout = 10 * time.Second
	defaultSettingsTTL    = time.Minute
	defaultDayCacheTTL    = time.Hour
	defaultMonthCacheTTL  = 24 * time.Hour
)

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  valueOrDefault("SERVER_ADDRESS", defaultServerAddress),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: valueOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
		Redis: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		MQTT: MQTTConfig{
			BrokerURL: os.Getenv("MQTT_BROKER_URL"),
			Topic:     valueOrDefault("MQTT_TOPIC", defaultMQTTTopic),
		},
		Storage: StorageConfig{
			UseSpaces:       parseBoolWithDefault("USE_SPACES", false),
			SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
			SpacesRegion:    os.Getenv("SPACES_REGION"),
			SpacesBucket:    os.Getenv("SPACES_BUCKET"),
			SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
			SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
			SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
			ExportDir:       valueOrDefault("EXPORT_DIR", defaultExportDir),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLogLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLogFormat),
		},
		Prayer: PrayerConfig{
			AladhanBaseURL: valueOrDefault("ALADHAN_BASE_URL", aladhan.DefaultBaseURL),
		},
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.Prayer.Home.Latitude, err = parseFloat("HOME_LATITUDE", defaultLatitude); err != nil {
		return nil, err
	}
	if cfg.Prayer.Home.Longitude, err = parseFloat("HOME_LONGITUDE", defaultLongitude); err != nil {
		return nil, err
	}
	if err := cfg.Prayer.Home.Validate(); err != nil {
		return nil, fmt.Errorf("invalid home location: %w", err)
	}

	if cfg.Prayer.Method, err = parseInt("DEFAULT_METHOD", defaultMethod); err != nil {
		return nil, err
	}
	if cfg.Prayer.Method < 0 || cfg.Prayer.Method > model.MaxMethod {
		return nil, fmt.Errorf("DEFAULT_METHOD %d is out of range 0-%d", cfg.Prayer.Method, model.MaxMethod)
	}

	durations := []struct {
		key      string
		dst      *time.Duration
		fallback time.Duration
	}{
		{"ALADHAN_TIMEOUT", &cfg.Prayer.AladhanTimeout, defaultAladhanTimeout},
		{"SETTINGS_TTL", &cfg.Prayer.SettingsTTL, defaultSettingsTTL},
		{"DAY_CACHE_TTL", &cfg.Prayer.DayCacheTTL, defaultDayCacheTTL},
		{"MONTH_CACHE_TTL", &cfg.Prayer.MonthCacheTTL, defaultMonthCacheTTL},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	if cfg.DatabaseURL != "" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when DATABASE_URL is set")
	}
	if cfg.Storage.UseSpaces && (cfg.Storage.SpacesBucket == "" || cfg.Storage.SpacesEndpoint == "") {
		return nil, fmt.Errorf("SPACES_BUCKET and SPACES_ENDPOINT are required when USE_SPACES is true")
	}

	return cfg, nil
}

// AdminEnabled reports whether the admin API can be mounted.
func (c *Config) AdminEnabled() bool {
	return c.DatabaseURL != ""
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return f, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
