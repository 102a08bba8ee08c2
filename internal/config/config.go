package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret string
}

type AIConfig struct {
	EmbeddingProvider   string // "openai" or "ollama"
	EmbeddingModel      string
	EmbeddingDimensions int // dimension D shared by query and stored vectors
	LLMProvider         string // "openai" or "ollama"
	LLMModel            string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OllamaBaseURL       string
}

type RetrievalConfig struct {
	Threshold float64 // inclusive lower bound on similarity score
	TopK      int     // strict upper bound on result set size
	// AnonymousPolicy decides what an unauthenticated caller may search:
	// "public" restricts to fragments with no owner, "reject" refuses the
	// request. There is deliberately no "all" option.
	AnonymousPolicy     string
	MaxContextChars     int // assembled context budget; 0 disables truncation
	StageTimeoutSeconds int // per-stage timeout for outbound calls
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
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			LLMProvider:         getEnv("LLM_PROVIDER", "openai"),
			LLMModel:            getEnv("LLM_MODEL", "gpt-4.1-mini"),
			OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Retrieval: RetrievalConfig{
			Threshold:           getEnvAsFloat("RETRIEVAL_THRESHOLD", 0.0),
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 5),
			AnonymousPolicy:     getEnv("RETRIEVAL_ANONYMOUS_POLICY", "reject"),
			MaxContextChars:     getEnvAsInt("RETRIEVAL_MAX_CONTEXT_CHARS", 12000),
			StageTimeoutSeconds: getEnvAsInt("PIPELINE_STAGE_TIMEOUT_SECONDS", 60),
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
