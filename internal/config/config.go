package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string
	Port     string

	JWTSecret string
	JWTExpiry time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. MONGO_URI and JWT_SECRET have no defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:  os.Getenv("MONGO_URI"),
		DBName:    os.Getenv("DB_NAME"),
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: 7 * 24 * time.Hour,
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	if cfg.DBName == "" {
		cfg.DBName = "noteworthy"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if expiry := os.Getenv("JWT_EXPIRY"); expiry != "" {
		d, err := time.ParseDuration(expiry)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
		}
		cfg.JWTExpiry = d
	}

	return cfg, nil
}
