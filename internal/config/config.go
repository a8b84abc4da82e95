package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Memory   MemoryConfig
	Autofill AutofillConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey string
}

// MemoryConfig selects the backing store for the autofill memory cache.
// Store is "memory" (process-local) or "postgres" (durable, gorm-backed).
type MemoryConfig struct {
	Store string
}

type AutofillConfig struct {
	LLMConcurrency int
	LLMTimeout     time.Duration
	LLMCacheSize   int
	MaxSessions    int
	LabelCacheSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "autofill_engine"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "autofill_field_labels"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Memory: MemoryConfig{
			Store: getEnv("MEMORY_STORE", "memory"),
		},
		Autofill: AutofillConfig{
			LLMConcurrency: getEnvAsInt("AUTOFILL_LLM_CONCURRENCY", 5),
			LLMTimeout:     getEnvAsDuration("AUTOFILL_LLM_TIMEOUT", "4s"),
			LLMCacheSize:   getEnvAsInt("AUTOFILL_LLM_CACHE_SIZE", 1024),
			MaxSessions:    getEnvAsInt("AUTOFILL_MAX_SESSIONS", 256),
			LabelCacheSize: getEnvAsInt("AUTOFILL_LABEL_CACHE_SIZE", 1000),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
