package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	OpenAIAPIKey          string
	GoogleCredentialsFile string

	// Optional with defaults
	DBPath            string
	HTTPPort          int
	BaseURL           string
	OpenAIModel       string
	OpenAITemperature float64
	Timezone          string
	ListPageSize      int
	CancelPageSize    int
	DevMode           bool
}

func LoadFromEnv() *Config {
	cfg := &Config{
		// Required
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),

		// Optional with defaults
		DBPath:            getEnvOrDefault("CALCHAT_DB_PATH", "./calchat.db"),
		HTTPPort:          getEnvAsIntOrDefault("CALCHAT_HTTP_PORT", 8080),
		BaseURL:           os.Getenv("CALCHAT_BASE_URL"),
		OpenAIModel:       getEnvOrDefault("CALCHAT_OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITemperature: getEnvAsFloatOrDefault("CALCHAT_OPENAI_TEMPERATURE", 0.2),
		Timezone:          getEnvOrDefault("CALCHAT_TIMEZONE", "America/New_York"),
		ListPageSize:      getEnvAsIntOrDefault("CALCHAT_LIST_PAGE_SIZE", 20),
		CancelPageSize:    getEnvAsIntOrDefault("CALCHAT_CANCEL_PAGE_SIZE", 50),
		DevMode:           getEnvAsBoolOrDefault("CALCHAT_DEV_MODE", false),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
