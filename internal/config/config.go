package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Matching  MatchingConfig
	Geocoding GeocodingConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	LogLevel       string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	MigrateOnStart bool
	RunSeeders     bool

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

// Enabled reports whether enough is configured to reach Postgres.
func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != "" && c.DBName != "" && c.DBUser != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	Enabled      bool
	AccessSecret string
}

type MatchingConfig struct {
	ConfigFile string
	Workers    int
	DefaultK   int
	MaxK       int
}

type GeocodingConfig struct {
	BaseURL    string
	UserAgent  string
	RPS        float64
	Burst      int
	MaxRetries int
	Timeout    time.Duration
	CacheTTL   time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:        req("APP_NAME"),
		Environment:    req("APP_ENV"),
		HTTPPort:       req("HTTP_PORT"),
		LogLevel:       withDefault(opt("LOG_LEVEL"), "info"),
		RequestTimeout: durationSeconds(opt("REQUEST_TIMEOUT"), 15*time.Second),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                withDefault(opt("DB_PORT"), "5432"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             withDefault(opt("DB_SSL_MODE"), "disable"),
		MigrateOnStart:        boolOr(opt("DB_MIGRATE_ON_START"), true),
		RunSeeders:            boolOr(opt("DB_RUN_SEEDERS"), false),
		ConnectTimeout:        durationSeconds(opt("DB_CONNECT_TIMEOUT"), 0),
		PoolMaxConns:          int32(intOr(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(intOr(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   durationSeconds(opt("DB_POOL_MAX_CONN_LIFETIME"), 0),
		PoolMaxConnIdleTime:   durationSeconds(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 0),
		PoolHealthCheckPeriod: durationSeconds(opt("DB_POOL_HEALTH_CHECK_PERIOD"), 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     withDefault(opt("REDIS_PORT"), "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       intOr(opt("REDIS_DB"), 0),
		TTL:      durationSeconds(opt("REDIS_TTL"), 600*time.Second),
	}

	cfg.Auth = AuthConfig{
		Enabled:      boolOr(opt("AUTH_ENABLED"), false),
		AccessSecret: opt("JWT_ACCESS_SECRET"),
	}
	if cfg.Auth.Enabled && cfg.Auth.AccessSecret == "" {
		missing = append(missing, "JWT_ACCESS_SECRET")
	}

	cfg.Matching = MatchingConfig{
		ConfigFile: opt("MATCHING_CONFIG_FILE"),
		Workers:    intOr(opt("MATCHING_WORKERS"), 0),
		DefaultK:   intOr(opt("MATCHING_DEFAULT_K"), 5),
		MaxK:       intOr(opt("MATCHING_MAX_K"), 100),
	}

	cfg.Geocoding = GeocodingConfig{
		BaseURL:    opt("GEOCODER_BASE_URL"),
		UserAgent:  withDefault(opt("GEOCODER_USER_AGENT"), "talent-match/1.0"),
		RPS:        floatOr(opt("GEOCODER_RPS"), 1),
		Burst:      intOr(opt("GEOCODER_BURST"), 1),
		MaxRetries: intOr(opt("GEOCODER_MAX_RETRIES"), 3),
		Timeout:    durationSeconds(opt("GEOCODER_TIMEOUT"), 5*time.Second),
		CacheTTL:   durationSeconds(opt("GEOCODER_CACHE_TTL"), 24*time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func floatOr(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// durationSeconds accepts either a Go duration ("1m30s") or a bare number of seconds.
func durationSeconds(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
