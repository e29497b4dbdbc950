package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds everything the service reads at startup.
type Config struct {
	ServerHost string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	JWTSecret string
}

// LoadConfig reads configuration for the detected environment. CI takes
// everything from environment variables; all other environments read Docker
// secrets from SECRETS_DIR (default /run/secrets).
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("loading CI configuration: %w", err)
		}
	case Development, Test, Production:
		loadFromSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD is required in CI")
	}
	return nil
}

// loadFromSecrets leaves missing secrets empty; ValidateConfig reports them
// all at once instead of failing on the first unreadable file.
func loadFromSecrets(cfg *Config) {
	cfg.ServerHost = readSecret("server_host")
	cfg.ServerPort = readSecret("server_port")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.JWTSecret = readSecret("jwt_secret")
}

func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
