package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Secret         string
	DatabaseDSN    string
	HTTPPort       string
	StaffCSV       string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	AdvisorTimeout time.Duration
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := getEnv("HTTP_PORT", "8080")
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("ADVISOR_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		} else {
			log.Printf("invalid ADVISOR_TIMEOUT_SECONDS value %q, defaulting to 10", raw)
		}
	}

	return Config{
		Secret:         getEnv("SECRET", "dev_secret"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		HTTPPort:       port,
		StaffCSV:       getEnv("STAFF_CSV", "assets/staff.csv"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AdvisorTimeout: timeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
