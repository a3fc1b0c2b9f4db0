package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// MongoURI is the connection string for the document store.
	MongoURI string
	// MongoDatabase is the database holding the readings and users collections.
	MongoDatabase string

	// HTTP server timeouts.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoTimeout bounds the initial connection attempt.
	MongoTimeout time.Duration

	// BcryptCost is the cost used when hashing user passwords.
	BcryptCost int

	LogLevel string
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.MongoURI = os.Getenv("MONGO_CONNECTION_STRING")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_CONNECTION_STRING is required")
	}
	cfg.MongoDatabase = getenvDefault("MONGO_DATABASE", "weather-data-api")

	readTimeoutStr := getenvDefault("HTTP_READ_TIMEOUT", "10s")
	readTimeout, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout

	writeTimeoutStr := getenvDefault("HTTP_WRITE_TIMEOUT", "10s")
	writeTimeout, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout = writeTimeout

	mongoTimeoutStr := getenvDefault("MONGO_CONNECT_TIMEOUT", "10s")
	mongoTimeout, err := time.ParseDuration(mongoTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MONGO_CONNECT_TIMEOUT: %w", err)
	}
	cfg.MongoTimeout = mongoTimeout

	cfg.BcryptCost = getenvInt("BCRYPT_COST", 10)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
