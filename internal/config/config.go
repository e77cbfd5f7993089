package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/thryve-market/service-marketplace/internal/platform/database"
)

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// ServiceConfig holds all configuration for the marketplace service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	JWTSecret   string
	DBConfig    database.PostgresConfig
	KafkaConfig KafkaConfig
}

// Load reads configuration from the environment, applying a .env file when
// one is present.
func Load() (*ServiceConfig, error) {
	// Missing .env is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	return &ServiceConfig{
		Port:      ":" + getEnv("MARKETPLACE_SERVICE_PORT", "8080"),
		AppEnv:    getEnv("APP_ENV", "development"),
		JWTSecret: getEnv("MARKETPLACE_JWT_SECRET", "dev-secret"),
		DBConfig: database.PostgresConfig{
			Host:     getEnv("MARKETPLACE_DB_HOST", "localhost"),
			Port:     getEnv("MARKETPLACE_DB_PORT", "5432"),
			User:     getEnv("MARKETPLACE_DB_USER", "marketplace"),
			Password: getEnv("MARKETPLACE_DB_PASSWORD", "marketplace"),
			DBName:   getEnv("MARKETPLACE_DB_NAME", "marketplace"),
			SSLMode:  getEnv("MARKETPLACE_DB_SSLMODE", "disable"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(getEnv("MARKETPLACE_KAFKA_BROKERS", "localhost:9092"), ","),
			GroupPrefix: getEnv("MARKETPLACE_KAFKA_GROUP_PREFIX", "thryve."),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
