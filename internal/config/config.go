package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Similarity SimilarityConfig
	Session    SessionConfig
	Pipeline   PipelineConfig
	Ai         AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type SimilarityConfig struct {
	Threshold  float64
	VectorSize int
}

type SessionConfig struct {
	TTLMinutes   int
	SweepMinutes int
}

type PipelineConfig struct {
	WorkerCount int
	TopicName   string
}

type AIConfig struct {
	EmbeddingProvider string // "fastembed", "ollama" or "gemini"
	FastEmbedCacheDir string
	OllamaBaseURL     string
	OllamaModel       string
	GeminiApiKey      string
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
		Similarity: SimilarityConfig{
			Threshold:  getEnvAsFloat("SIMILARITY_THRESHOLD", 0.75),
			VectorSize: getEnvAsInt("EMBEDDING_VECTOR_SIZE", 384),
		},
		Session: SessionConfig{
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 60),
			SweepMinutes: getEnvAsInt("SESSION_SWEEP_MINUTES", 10),
		},
		Pipeline: PipelineConfig{
			WorkerCount: getEnvAsInt("PIPELINE_WORKER_COUNT", 2),
			TopicName:   getEnv("PROCESS_DOCUMENT_TOPIC_NAME", "PROCESS_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "fastembed"),
			FastEmbedCacheDir: getEnv("FASTEMBED_CACHE_DIR", ".fastembed"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
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
