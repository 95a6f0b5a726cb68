package config

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

type ChatbotConfig struct {
	Type    string // "rasa" or "canned"
	RasaURL string
	Token   string
	Timeout time.Duration
}

type Config struct {
	DBURL       string
	Port        string
	JWTSecret   string
	Environment string
	CorsConfig  cors.Options
	Chatbot     ChatbotConfig
	R2          R2Config
}

// Load builds the process configuration once at startup. Everything that
// needs configuration receives this *Config through its constructor; nothing
// reads the environment after Load returns.
func Load() *Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Infoln("No", envFile, "file found, using process environment")
	}

	return &Config{
		DBURL:       getEnv("DB_URL", ""),
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		Environment: getEnv("ENV", "development"),
		CorsConfig:  corsConfig(),
		Chatbot: ChatbotConfig{
			Type:    getEnv("CHATBOT_TYPE", "canned"),
			RasaURL: getEnv("RASA_SERVER_URL", "http://localhost:5005"),
			Token:   getEnv("RASA_TOKEN", ""),
			Timeout: 10 * time.Second,
		},
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			PublicBaseURL:   getEnv("R2_PUBLIC_BASE_URL", ""),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func corsConfig() cors.Options {
	origins := []string{"http://localhost:3000", "https://archimorph.vercel.app"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		origins = strings.Split(extra, ",")
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
