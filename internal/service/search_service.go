package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-docsearch-be/internal/config"
	"ai-docsearch-be/internal/dto"
	"ai-docsearch-be/internal/pkg/logger"
	"ai-docsearch-be/pkg/apperr"
	"ai-docsearch-be/pkg/embedding"
	"ai-docsearch-be/pkg/events"
	"ai-docsearch-be/pkg/rag/assemble"
	"ai-docsearch-be/pkg/rag/retrieve"

	"github.com/google/uuid"
)

// ISearchService is the request orchestrator: it sequences the answer
// pipeline (embed, retrieve, assemble, generate) for one request. The first
// stage failure short-circuits the rest; an empty retrieval result is not a
// failure and still reaches generation.
type ISearchService interface {
	Ask(ctx context.Context, ownerId *uuid.UUID, request *dto.AskRequest) (*dto.AskResponse, error)
}

// Retriever is the scoped similarity search stage.
type Retriever interface {
	Search(ctx context.Context, queryVector []float32, ownerId *uuid.UUID, threshold float64, count int) ([]retrieve.Fragment, error)
}

// ContextAssembler is the context assembly stage.
type ContextAssembler interface {
	Assemble(fragments []retrieve.Fragment) assemble.Result
}

// AnswerGenerator is the grounded generation stage.
type AnswerGenerator interface {
	Generate(ctx context.Context, contextText, query string) (string, error)
}

type searchService struct {
	embeddingProvider embedding.EmbeddingProvider
	retriever         Retriever
	assembler         ContextAssembler
	generator         AnswerGenerator
	publisher         *events.Publisher
	retrieval         config.RetrievalConfig
	dimensions        int
	stageTimeout      time.Duration
	logger            logger.ILogger
}

func NewSearchService(
	embeddingProvider embedding.EmbeddingProvider,
	retriever Retriever,
	assembler ContextAssembler,
	generator AnswerGenerator,
	publisher *events.Publisher,
	retrieval config.RetrievalConfig,
	dimensions int,
	log logger.ILogger,
) ISearchService {
	stageTimeout := time.Duration(retrieval.StageTimeoutSeconds) * time.Second
	if stageTimeout <= 0 {
		stageTimeout = 60 * time.Second
	}
	return &searchService{
		embeddingProvider: embeddingProvider,
		retriever:         retriever,
		assembler:         assembler,
		generator:         generator,
		publisher:         publisher,
		retrieval:         retrieval,
		dimensions:        dimensions,
		stageTimeout:      stageTimeout,
		logger:            log,
	}
}

func (s *searchService) Ask(ctx context.Context, ownerId *uuid.UUID, request *dto.AskRequest) (*dto.AskResponse, error) {
	// Validate before any external call is made
	query := strings.TrimSpace(request.Query)
	if query == "" {
		err := apperr.New(apperr.KindInvalidInput, apperr.StageInput, "query must not be empty")
		s.publishFailed(ownerId, err)
		return nil, err
	}

	queryVector, err := s.embed(ctx, query)
	if err != nil {
		s.publishFailed(ownerId, err)
		return nil, err
	}

	fragments, err := s.retrieveFragments(ctx, queryVector, ownerId)
	if err != nil {
		s.publishFailed(ownerId, err)
		return nil, err
	}

	assembled := s.assembler.Assemble(fragments)

	answerText, err := s.generate(ctx, assembled.Context, query)
	if err != nil {
		s.publishFailed(ownerId, err)
		return nil, err
	}

	sources := make([]dto.SourceDTO, len(assembled.Included))
	for i, f := range assembled.Included {
		sources[i] = dto.SourceDTO{
			Id:      f.Id,
			Content: f.Content,
			Score:   f.Score,
		}
	}

	s.publishCompleted(ownerId, len(sources), len(assembled.Dropped))

	return &dto.AskResponse{
		Answer:         answerText,
		Sources:        sources,
		DroppedSources: assembled.Dropped,
	}, nil
}

func (s *searchService) embed(ctx context.Context, query string) ([]float32, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	queryVector, err := s.embeddingProvider.Generate(stageCtx, query)
	if err != nil {
		return nil, apperr.WrapUpstream(apperr.StageEmbedding, "embedding service unavailable", err)
	}

	// Defensive check against a misconfigured model binding; the retriever
	// validates again before touching the store.
	if len(queryVector) != s.dimensions {
		return nil, apperr.New(apperr.KindDimensionMismatch, apperr.StageEmbedding,
			fmt.Sprintf("embedding model returned %d dimensions, expected %d", len(queryVector), s.dimensions))
	}

	return queryVector, nil
}

func (s *searchService) retrieveFragments(ctx context.Context, queryVector []float32, ownerId *uuid.UUID) ([]retrieve.Fragment, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	return s.retriever.Search(stageCtx, queryVector, ownerId, s.retrieval.Threshold, s.retrieval.TopK)
}

func (s *searchService) generate(ctx context.Context, contextText, query string) (string, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	return s.generator.Generate(stageCtx, contextText, query)
}

func (s *searchService) publishCompleted(ownerId *uuid.UUID, sourceCount, droppedCount int) {
	evt := events.BaseEvent{
		Type: "SEARCH_COMPLETED",
		Data: map[string]interface{}{
			"identity":      identityLabel(ownerId),
			"source_count":  sourceCount,
			"dropped_count": droppedCount,
		},
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(evt); err != nil {
		s.logger.Warn("SEARCH", "failed to publish SEARCH_COMPLETED event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *searchService) publishFailed(ownerId *uuid.UUID, cause error) {
	evt := events.BaseEvent{
		Type: "SEARCH_FAILED",
		Data: map[string]interface{}{
			"identity": identityLabel(ownerId),
			"kind":     string(apperr.KindOf(cause)),
			"stage":    string(apperr.StageOf(cause)),
		},
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(evt); err != nil {
		s.logger.Warn("SEARCH", "failed to publish SEARCH_FAILED event", map[string]interface{}{"error": err.Error()})
	}
}

func identityLabel(ownerId *uuid.UUID) string {
	if ownerId == nil {
		return "anonymous"
	}
	return ownerId.String()
}
