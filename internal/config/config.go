package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the engine needs at construction time. Nothing
// else reads the environment: base URLs and credentials flow in explicitly.
type Config struct {
	APIBaseURL   string
	MediaBaseURL string
	WSBaseURL    string
	AccessToken  string
	TypingDecay  time.Duration
	AMQPURL      string
	AMQPExchange string
	Environment  string
	MetricsAddr  string
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	api := strings.TrimSuffix(getEnvOrDefault("CHAT_API_URL", "http://127.0.0.1:8000"), "/")
	return &Config{
		APIBaseURL:   api,
		MediaBaseURL: getEnvOrDefault("CHAT_MEDIA_URL", api+"/media"),
		WSBaseURL:    getEnvOrDefault("CHAT_WS_URL", deriveWSBase(api)),
		AccessToken:  os.Getenv("CHAT_ACCESS_TOKEN"),
		TypingDecay:  getDurationOrDefault("CHAT_TYPING_DECAY", "1500ms"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnvOrDefault("AMQP_EXCHANGE", "client_telemetry"),
		Environment:  getEnvOrDefault("ENVIRONMENT", "dev"),
		MetricsAddr:  os.Getenv("METRICS_ADDR"),
	}
}

func deriveWSBase(api string) string {
	switch {
	case strings.HasPrefix(api, "https://"):
		return "wss://" + strings.TrimPrefix(api, "https://")
	case strings.HasPrefix(api, "http://"):
		return "ws://" + strings.TrimPrefix(api, "http://")
	}
	return api
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationOrDefault(key, fallback string) time.Duration {
	val := getEnvOrDefault(key, fallback)
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Fatalf("invalid duration for %s: %v", key, err)
	}
	return d
}
