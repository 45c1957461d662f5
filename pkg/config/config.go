package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	PostgresConnStr string
	MongoURI        string
	MongoDatabase   string

	JWTSecret string

	GeminiAPIKey            string
	FirebaseCredentialsPath string

	ProPublicaAPIKey string
	OpenStatesAPIKey string
	IngestStates     []string
	IngestInterval   time.Duration

	// Max rune count kept when moderation degrades to pass-through cleaning
	ModerationFallbackMaxLen int

	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port:                     getEnv("PORT", "8080"),
		Env:                      getEnv("ENV", "development"),
		PostgresConnStr:          getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                 getEnv("MONGO_URI", ""),
		MongoDatabase:            getEnv("MONGO_DATABASE", "civiq"),
		JWTSecret:                getEnv("JWT_SECRET", "fallback-secret-key"),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		FirebaseCredentialsPath:  getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		ProPublicaAPIKey:         getEnv("PROPUBLICA_API_KEY", ""),
		OpenStatesAPIKey:         getEnv("OPENSTATES_API_KEY", ""),
		IngestStates:             getEnvList("INGEST_STATES", "CA,NY,TX"),
		IngestInterval:           getEnvDuration("INGEST_INTERVAL", 6*time.Hour),
		ModerationFallbackMaxLen: getEnvInt("MODERATION_FALLBACK_MAX_LEN", 1000),
		AllowedOrigins:           getEnvList("ALLOWED_ORIGINS", "http://localhost:3000"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
