package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"semsim-be/internal/config"
	"semsim-be/internal/controller"
	"semsim-be/internal/pkg/logger"
	"semsim-be/internal/repository/memory"
	"semsim-be/internal/service"
	"semsim-be/pkg/embedding"
)

type Container struct {
	// Controllers
	SimilarityController controller.ISimilarityController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure
	SessionRepo *memory.SessionRepository
	Logger      logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus for async document processing
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Session registry: TTL eviction with background sweep
	sessionRepo := memory.NewSessionRepository(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		time.Duration(cfg.Session.SweepMinutes)*time.Minute,
	)

	// Embedding provider selection
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
			cfg.Similarity.VectorSize,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "gemini":
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey, cfg.Similarity.VectorSize)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	default:
		provider, err := embedding.NewFastEmbedProvider(cfg.Ai.FastEmbedCacheDir, cfg.Similarity.VectorSize)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize fastembed provider: %v", err)
		}
		embeddingProvider = provider
		log.Printf("[INFO] Using Embedding Provider: FASTEMBED (all-MiniLM-L6-v2)")
	}

	publisherService := service.NewPublisherService(cfg.Pipeline.TopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Pipeline.TopicName,
		cfg.Pipeline.WorkerCount,
		cfg.Similarity.Threshold,
		cfg.Similarity.VectorSize,
		sessionRepo,
		embeddingProvider,
		sysLogger,
	)

	similarityService := service.NewSimilarityService(sessionRepo, publisherService, sysLogger)
	similarityController := controller.NewSimilarityController(similarityService)

	return &Container{
		SimilarityController: similarityController,
		ConsumerService:      consumerService,
		SessionRepo:          sessionRepo,
		Logger:               sysLogger,
	}
}
