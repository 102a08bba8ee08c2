package bootstrap

import (
	"log"

	"ai-docsearch-be/internal/config"
	"ai-docsearch-be/internal/constant"
	"ai-docsearch-be/internal/controller"
	"ai-docsearch-be/internal/pkg/logger"
	"ai-docsearch-be/internal/repository/implementation"
	"ai-docsearch-be/internal/service"
	"ai-docsearch-be/pkg/embedding"
	"ai-docsearch-be/pkg/events"
	"ai-docsearch-be/pkg/llm/factory"
	"ai-docsearch-be/pkg/rag/answer"
	"ai-docsearch-be/pkg/rag/assemble"
	"ai-docsearch-be/pkg/rag/retrieve"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const auditTopicName = "search.audit"

type Container struct {
	// Controllers
	SearchController controller.ISearchController

	// Background Services (Exposed for main.go to run)
	AuditConsumerService service.IAuditConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	auditPublisher := events.NewPublisher(pubSub, auditTopicName)

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	// LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Pipeline stages
	fragmentRepo := implementation.NewFragmentRepository(db)
	retriever := retrieve.NewRetriever(
		fragmentRepo,
		cfg.Ai.EmbeddingDimensions,
		cfg.Retrieval.AnonymousPolicy,
		sysLogger,
	)
	assembler := assemble.NewAssembler(cfg.Retrieval.MaxContextChars)
	generator := answer.NewGenerator(llmProvider, constant.AnswerSystemInstructionV1, sysLogger)

	searchService := service.NewSearchService(
		embeddingProvider,
		retriever,
		assembler,
		generator,
		auditPublisher,
		cfg.Retrieval,
		cfg.Ai.EmbeddingDimensions,
		sysLogger,
	)

	return &Container{
		SearchController:     controller.NewSearchController(searchService),
		AuditConsumerService: service.NewAuditConsumerService(pubSub, auditTopicName, sysLogger),
		Logger:               sysLogger,
	}
}
