package server

import (
	"os"

	"github.com/joho/godotenv"

	"gemchat/internal/gemini"
)

type Config struct {
	Port         string
	GeminiAPIKey string
	Model        string
}

// LoadConfig reads the server configuration from the environment, loading a
// .env file first when one exists. A missing API key is not fatal here; the
// chat handler answers with an advisory reply instead.
func LoadConfig() *Config {
	godotenv.Load()

	return &Config{
		Port:         getEnvOrDefault("PORT", "8000"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Model:        getEnvOrDefault("GEMINI_MODEL", gemini.DefaultModel),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
