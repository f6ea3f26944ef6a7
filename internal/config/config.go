package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Chat      ChatConfig
	Voice     VoiceConfig
	Emergency EmergencyConfig
	Auth      AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables event forwarding
	RedisURL           string // empty disables cross-instance fan-out
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type StoreConfig struct {
	Backend            string // "file", "redis", "postgres" or "memory"
	Dir                string
	IdleTTL            time.Duration
	RedisTTL           time.Duration
	StrictSettingsKeys bool
}

type ChatConfig struct {
	Responder     string // "canned" or "ollama"
	ReplyDelay    time.Duration
	OllamaBaseURL string
	LLMModel      string
	LLMTimeout    time.Duration
}

type VoiceConfig struct {
	MaxSession time.Duration
}

type EmergencyConfig struct {
	SafeExitURL string
	Topic       string
}

type AuthConfig struct {
	JWTSecret string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			Connection: getEnv("DB_CONNECTION_STRING", "ppods.db"),
		},
		Store: StoreConfig{
			Backend:            strings.ToLower(getEnv("STORE_BACKEND", "file")),
			Dir:                getEnv("STORE_DIR", "data/state"),
			IdleTTL:            getEnvAsDuration("STORE_IDLE_TTL", 30*time.Minute),
			RedisTTL:           getEnvAsDuration("STORE_REDIS_TTL", 0),
			StrictSettingsKeys: getEnvAsBool("STRICT_SETTINGS_KEYS", false),
		},
		Chat: ChatConfig{
			Responder:     strings.ToLower(getEnv("CHAT_RESPONDER", "canned")),
			ReplyDelay:    getEnvAsDuration("CHAT_REPLY_DELAY", time.Second),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Voice: VoiceConfig{
			MaxSession: getEnvAsDuration("VOICE_MAX_SESSION", 5*time.Minute),
		},
		Emergency: EmergencyConfig{
			SafeExitURL: getEnv("SAFE_EXIT_URL", "https://www.plannedparenthood.org/"),
			Topic:       getEnv("EMERGENCY_TOPIC_NAME", "EMERGENCY_EVENTS"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1500ms") or a plain number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
