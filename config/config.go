package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Firebase FirebaseConfig
	S3       S3Config
	Redis    RedisConfig
	Admin    AdminConfig
	Relay    RelayConfig
	Mirror   MirrorConfig
}

type ServerConfig struct {
	Port string
	// AllowedOrigins restricts cross-origin access to the API. Empty means
	// any origin, which is only acceptable in development.
	AllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	// PublicDir is the root of locally served static assets; uploaded files
	// land under <PublicDir>/uploads and <PublicDir>/documents in dev mode.
	PublicDir string
	// DataDir holds the fallback mirror and local site content.
	DataDir string
}

type FirebaseConfig struct {
	ProjectID     string
	ClientEmail   string
	PrivateKey    string
	StorageBucket string
	// StorageBucketAlt is tried after StorageBucket when uploading.
	StorageBucketAlt string
}

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AdminConfig struct {
	// Password is decoded from ADMIN_PASSWORD_ENCODED (base64) at load time
	// so the secret is not stored in plaintext alongside the code.
	Password       string
	SessionMaxAge  int
	LoginRateBurst int
}

type RelayConfig struct {
	BaseURL string
}

type MirrorConfig struct {
	// SyncSpec is a cron expression (with seconds) for the primary-to-mirror
	// refresh job. Empty disables the job.
	SyncSpec string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	adminPassword, err := decodeAdminPassword(getEnv("ADMIN_PASSWORD_ENCODED", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			PublicDir:   getEnv("PUBLIC_DIR", "public"),
			DataDir:     getEnv("DATA_DIR", "data"),
		},
		Firebase: FirebaseConfig{
			ProjectID:        getEnv("FIREBASE_PROJECT_ID", ""),
			ClientEmail:      getEnv("FIREBASE_CLIENT_EMAIL", ""),
			PrivateKey:       getEnv("FIREBASE_PRIVATE_KEY", ""),
			StorageBucket:    getEnv("FIREBASE_STORAGE_BUCKET", ""),
			StorageBucketAlt: getEnv("FIREBASE_STORAGE_BUCKET_ALT", ""),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			Password:       adminPassword,
			SessionMaxAge:  getEnvAsInt("ADMIN_SESSION_MAX_AGE", 60*60*24),
			LoginRateBurst: getEnvAsInt("ADMIN_LOGIN_BURST", 5),
		},
		Relay: RelayConfig{
			BaseURL: getEnv("RELAY_BASE_URL", "https://transfer.sh"),
		},
		Mirror: MirrorConfig{
			SyncSpec: getEnv("MIRROR_SYNC_SPEC", "0 */15 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.App.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD_ENCODED is required")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode. The
// upload pipeline keys its last fallback tier on this: local disk in
// development, the temporary relay in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func decodeAdminPassword(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("ADMIN_PASSWORD_ENCODED is not valid base64: %w", err)
	}
	return string(raw), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated value, dropping empty entries.
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
