package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Pending registration store drivers.
const (
	PendingStoreMemory = "memory"
	PendingStoreRedis  = "redis"
)

// Upload storage drivers.
const (
	StorageDisk  = "disk"
	StorageMinio = "minio"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Registration RegistrationConfig
	Mail         MailConfig
	Storage      StorageConfig
	Realtime     RealtimeConfig
	Admin        AdminConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigin            string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	RequireAdminToken     bool
}

// RegistrationConfig controls the OTP flow and the pending registration store.
type RegistrationConfig struct {
	OTPTTLSeconds         int
	PendingStore          string
	RedisPrefix           string
	RedisRetentionSeconds int
	SweepIntervalSeconds  int
}

// MailConfig holds SMTP settings. An empty host selects the log-only mailer.
type MailConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	TimeoutSeconds int
}

// StorageConfig selects where uploaded chat files go.
type StorageConfig struct {
	Driver         string
	UploadsDir     string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
}

// RealtimeConfig tunes websocket sessions.
type RealtimeConfig struct {
	SendBuffer  int
	PingSeconds int
}

// AdminConfig describes the administrator account created on first start.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "chat-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigin:            getEnv("CORS_ORIGIN", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			RequireAdminToken:     getEnvAsBool("AUTH_REQUIRE_ADMIN_TOKEN", false),
		},
		Registration: RegistrationConfig{
			OTPTTLSeconds:         getEnvAsInt("OTP_TTL_SECONDS", 600),
			PendingStore:          strings.ToLower(getEnv("PENDING_STORE", PendingStoreMemory)),
			RedisPrefix:           getEnv("PENDING_REDIS_PREFIX", "chat:pending"),
			RedisRetentionSeconds: getEnvAsInt("PENDING_REDIS_RETENTION_SECONDS", 86400),
			SweepIntervalSeconds:  getEnvAsInt("PENDING_SWEEP_INTERVAL_SECONDS", 0),
		},
		Mail: MailConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Username:       os.Getenv("SMTP_USERNAME"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			From:           getEnv("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
			TimeoutSeconds: getEnvAsInt("MAIL_TIMEOUT_SECONDS", 15),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", StorageDisk)),
			UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    os.Getenv("MINIO_BUCKET"),
			MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
		Realtime: RealtimeConfig{
			SendBuffer:  getEnvAsInt("REALTIME_SEND_BUFFER", 64),
			PingSeconds: getEnvAsInt("REALTIME_PING_SECONDS", 30),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Admin"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is required"))
	}
	if port, err := strconv.Atoi(c.App.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid APP_PORT %q", c.App.Port))
	}
	if c.Registration.OTPTTLSeconds <= 0 {
		errs = append(errs, errors.New("OTP_TTL_SECONDS must be positive"))
	}
	switch c.Registration.PendingStore {
	case PendingStoreMemory:
	case PendingStoreRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when PENDING_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PENDING_STORE %q", c.Registration.PendingStore))
	}
	switch c.Storage.Driver {
	case StorageDisk:
		if strings.TrimSpace(c.Storage.UploadsDir) == "" {
			errs = append(errs, errors.New("UPLOADS_DIR is required for disk storage"))
		}
	case StorageMinio:
		if c.Storage.MinioEndpoint == "" || c.Storage.MinioBucket == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for minio storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set"))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// OTPTTL returns the OTP validity window.
func (r RegistrationConfig) OTPTTL() time.Duration {
	return time.Duration(r.OTPTTLSeconds) * time.Second
}

// SweepInterval returns how often expired pending registrations are purged.
// Zero disables the sweeper.
func (r RegistrationConfig) SweepInterval() time.Duration {
	if r.SweepIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(r.SweepIntervalSeconds) * time.Second
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

// Timeout bounds a single delivery attempt.
func (m MailConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
