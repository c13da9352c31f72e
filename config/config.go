package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPlaceholderAvatarURL is used for profiles that never uploaded an avatar.
const DefaultPlaceholderAvatarURL = "https://placehold.co/200x200/png?text=bitnap"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTExpiry time.Duration

	// Object storage
	StorageBackend string
	StorageBucket  string
	AWSRegion      string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool

	// Events
	NATSURL string

	// Behaviour
	PlaceholderAvatarURL string
	DraftQuietPeriod     time.Duration
	DraftTTL             time.Duration
	ProbeTimeout         time.Duration
	BuddyRequestLimit    int
	BuddyRequestWindow   time.Duration
}

// RedisEnabled reports whether a Redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadEnvConfig(cfg)
		loadCISecrets(cfg)
	case Development, Test:
		// A missing .env file is fine, the process environment still applies.
		_ = godotenv.Load()
		loadEnvConfig(cfg)
		loadSecrets(cfg)
		applyDevDefaults(cfg)
	case Production:
		loadEnvConfig(cfg)
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads the non-sensitive settings shared by every environment.
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:8081,http://localhost:19006"))
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = getEnv("DB_NAME", "bitnap")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.DBPath = getEnv("DB_PATH", "bitnap.db")

	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.JWTExpiry = getEnvDuration("JWT_EXPIRY", 24*time.Hour)

	cfg.StorageBackend = getEnv("STORAGE_BACKEND", "s3")
	cfg.StorageBucket = getEnv("STORAGE_BUCKET", "avatars")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.MinIOEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.MinIOAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.MinIOUseSSL = getEnvBool("MINIO_USE_SSL", false)

	cfg.NATSURL = os.Getenv("NATS_URL")

	cfg.PlaceholderAvatarURL = getEnv("PLACEHOLDER_AVATAR_URL", DefaultPlaceholderAvatarURL)
	cfg.DraftQuietPeriod = getEnvDuration("DRAFT_QUIET_PERIOD", time.Second)
	cfg.DraftTTL = getEnvDuration("DRAFT_TTL", 7*24*time.Hour)
	cfg.ProbeTimeout = getEnvDuration("PROBE_TIMEOUT", 10*time.Second)
	cfg.BuddyRequestLimit = getEnvInt("BUDDY_REQUEST_LIMIT", 20)
	cfg.BuddyRequestWindow = getEnvDuration("BUDDY_REQUEST_WINDOW", time.Hour)
}

// loadCISecrets takes sensitive values from CI provided variables only.
func loadCISecrets(cfg *Config) {
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.MinIOSecretKey = os.Getenv("MINIO_SECRET_KEY")
}

// loadSecrets prefers Docker secrets and falls back to the environment.
func loadSecrets(cfg *Config) {
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD")
	cfg.JWTSecret = secretOrEnv("jwt_secret", "JWT_SECRET")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD")
	cfg.MinIOSecretKey = secretOrEnv("minio_secret_key", "MINIO_SECRET_KEY")
	if user := readSecret("db_user"); user != "" {
		cfg.DBUser = user
	}
	if access := readSecret("minio_access_key"); access != "" {
		cfg.MinIOAccessKey = access
	}
}

func applyDevDefaults(cfg *Config) {
	if cfg.DBUser == "" {
		cfg.DBUser = "postgres"
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = "postgres"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "bitnap-dev-secret"
	}
}

// secretsDir returns the directory Docker secrets are mounted in
func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	if data, err := os.ReadFile(filepath.Join(secretsDir(), name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func secretOrEnv(secret, envVar string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(envVar)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
