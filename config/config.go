package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port            string
	LLMProvider     string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	DatabaseURL     string
	DataDir         string
	GoogleAPIKey    string
	GoogleCSEID     string
	SectionInterval time.Duration
	MaxUploadBytes  int64
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	sectionIntervalMs := envInt("SECTION_INTERVAL_MS", 1000)
	maxUploadMB := envInt("MAX_UPLOAD_MB", 50)

	return Config{
		Port:            envOrDefault("PORT", "8080"),
		LLMProvider:     envOrDefault("LLM_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		DatabaseURL:     os.Getenv("DB_URL"),
		DataDir:         envOrDefault("DATA_DIR", "courses"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:     os.Getenv("GOOGLE_CSE_ID"),
		SectionInterval: time.Duration(sectionIntervalMs) * time.Millisecond,
		MaxUploadBytes:  int64(maxUploadMB) * 1024 * 1024,
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	num, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[ERROR] Invalid value for %s: %v, using default %d", key, err, fallback)
		return fallback
	}
	return num
}
