package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Store string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	MongoURI string
	MongoDB  string

	RedisURL      string
	MovieCacheTTL time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	LogLevel string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	store := getEnv("STORE", StorePostgres)
	if store != StorePostgres && store != StoreMongo {
		return nil, fmt.Errorf("invalid STORE %q (must be %s|%s)", store, StorePostgres, StoreMongo)
	}

	cacheTTL, err := strconv.Atoi(os.Getenv("MOVIE_CACHE_TTL_SECONDS"))
	if err != nil || cacheTTL <= 0 {
		cacheTTL = 600
	}

	return &Config{
		Store: store,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "myflix"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "myflix"),

		RedisURL:      os.Getenv("REDIS_URL"),
		MovieCacheTTL: time.Duration(cacheTTL) * time.Second,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// PostersEnabled reports whether every R2 setting needed for poster uploads is present.
func (c *Config) PostersEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
