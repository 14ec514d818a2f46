package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	Database DatabaseConfig
	JWT      JWTConfig
	QR       QRConfig
	TestMode bool
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type QRConfig struct {
	// BaseURL is the public prefix encoded into lot QR lookup URLs.
	BaseURL string
}

func Load() (*Config, error) {
	godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		QR: QRConfig{
			BaseURL: getEnv("QR_BASE_URL", "http://localhost:8080"),
		},
		TestMode: getEnv("TEST_MODE", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
