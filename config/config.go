package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	BackendBaseURL string
	BackendTimeout time.Duration
	RedisURL       string
	JWTSecret      string
	StoreName      string
	ThemeColor     string
	AddressPolicy  string
	CheckoutTTL    time.Duration
	SNSTopicArn    string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		Port:           getEnv("PORT", "8090"),
		Env:            getEnv("APP_ENV", "development"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://api-gateway:8080"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 10*time.Second),
		RedisURL:       getEnv("REDIS_URL", "redis://redis:6379"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key"),
		StoreName:      getEnv("STORE_NAME", "Daadis.in"),
		ThemeColor:     getEnv("THEME_COLOR", "#BFA6A1"),
		AddressPolicy:  getEnv("ADDRESS_POLICY", "skip-if-complete"),
		CheckoutTTL:    getDuration("CHECKOUT_TTL", 15*time.Minute),
		SNSTopicArn:    getEnv("SNS_TOPIC_ARN", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
