package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Ai         AIConfig
	Assessment AssessmentConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	StorageDriver      string // "postgres" or "memory"
	HistoryDriver      string // "redis" or "memory"
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret       string
	SessionTokenTTL time.Duration
}

type AIConfig struct {
	LLMProvider   string // "ollama", "openai" or "gemini"
	LLMModel      string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	GoogleGemini  string
	Temperature   float64
}

type AssessmentConfig struct {
	TriggerMinInterval    time.Duration
	TriggerMinChangeLines int
	MaxHistoryMessages    int
	ReportHistoryMessages int // 0 = whole transcript
	ReportTopic           string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			StorageDriver:      getEnv("STORAGE_DRIVER", "postgres"),
			HistoryDriver:      getEnv("HISTORY_DRIVER", "redis"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:       getEnv("JWT_SECRET", ""),
			SessionTokenTTL: getEnvAsDuration("SESSION_TOKEN_TTL", 4*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			GoogleGemini:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Temperature:   getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		},
		Assessment: AssessmentConfig{
			TriggerMinInterval:    getEnvAsDuration("TRIGGER_MIN_INTERVAL", 60*time.Second),
			TriggerMinChangeLines: getEnvAsInt("TRIGGER_MIN_CHANGE_LINES", 5),
			MaxHistoryMessages:    getEnvAsInt("MAX_HISTORY_MESSAGES", 10),
			ReportHistoryMessages: getEnvAsInt("REPORT_HISTORY_MESSAGES", 0),
			ReportTopic:           getEnv("REPORT_TOPIC", "assessment.report.requested"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
