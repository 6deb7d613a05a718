package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI      string
	DBName        string
	SessionSecret string
	SessionTTL    time.Duration
	UploadDir     string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:      getEnvOrDefault("MONGO_URI", ""),
		DBName:        getEnvOrDefault("DB_NAME", "storefront"),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", ""),
		SessionTTL:    getDurationEnv("SESSION_TTL", 12, time.Hour),
		UploadDir:     getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
