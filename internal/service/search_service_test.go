package service

import (
	"context"
	"errors"
	"testing"

	"ai-docsearch-be/internal/config"
	"ai-docsearch-be/internal/dto"
	"ai-docsearch-be/pkg/apperr"
	"ai-docsearch-be/pkg/rag/assemble"
	"ai-docsearch-be/pkg/rag/retrieve"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeRetriever struct {
	fragments []retrieve.Fragment
	err       error
	calls     int
	lastOwner *uuid.UUID
}

func (f *fakeRetriever) Search(ctx context.Context, queryVector []float32, ownerId *uuid.UUID, threshold float64, count int) ([]retrieve.Fragment, error) {
	f.calls++
	f.lastOwner = ownerId
	if f.err != nil {
		return nil, f.err
	}
	return f.fragments, nil
}

type fakeGenerator struct {
	answer      string
	err         error
	calls       int
	lastContext string
	lastQuery   string
}

func (f *fakeGenerator) Generate(ctx context.Context, contextText, query string) (string, error) {
	f.calls++
	f.lastContext = contextText
	f.lastQuery = query
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testRetrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		Threshold:           0.0,
		TopK:                5,
		AnonymousPolicy:     retrieve.AnonymousPolicyReject,
		MaxContextChars:     0,
		StageTimeoutSeconds: 5,
	}
}

func newTestService(embedder *fakeEmbedder, retriever *fakeRetriever, generator *fakeGenerator) ISearchService {
	return NewSearchService(
		embedder,
		retriever,
		assemble.NewAssembler(0),
		generator,
		nil, // audit publisher optional
		testRetrievalConfig(),
		4,
		nopLogger{},
	)
}

func TestAskRejectsEmptyQueryBeforeAnyExternalCall(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "empty string", query: ""},
		{name: "whitespace only", query: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &fakeEmbedder{vector: make([]float32, 4)}
			retriever := &fakeRetriever{}
			generator := &fakeGenerator{}
			svc := newTestService(embedder, retriever, generator)

			_, err := svc.Ask(context.Background(), nil, &dto.AskRequest{Query: tt.query})

			assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
			assert.Equal(t, 0, embedder.calls, "embedding must not be attempted")
			assert.Equal(t, 0, retriever.calls)
			assert.Equal(t, 0, generator.calls)
		})
	}
}

func TestAskHappyPathReturnsAnswerWithSources(t *testing.T) {
	fragmentId := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ownerId := uuid.New()

	embedder := &fakeEmbedder{vector: make([]float32, 4)}
	retriever := &fakeRetriever{fragments: []retrieve.Fragment{
		{Id: fragmentId, Content: "Refunds within 30 days.", Score: 0.91},
	}}
	generator := &fakeGenerator{answer: "The refund window is 30 days."}
	svc := newTestService(embedder, retriever, generator)

	res, err := svc.Ask(context.Background(), &ownerId, &dto.AskRequest{Query: "What is the refund window?"})

	assert.NoError(t, err)
	assert.Equal(t, "The refund window is 30 days.", res.Answer)
	assert.Len(t, res.Sources, 1)
	assert.Equal(t, fragmentId, res.Sources[0].Id)
	assert.Equal(t, "Refunds within 30 days.", res.Sources[0].Content)
	assert.InDelta(t, 0.91, res.Sources[0].Score, 1e-9)
	assert.Empty(t, res.DroppedSources)

	// The generator received the assembled context and the original query
	assert.Equal(t, "Refunds within 30 days.", generator.lastContext)
	assert.Equal(t, "What is the refund window?", generator.lastQuery)
	assert.Equal(t, &ownerId, retriever.lastOwner)
}

func TestAskEmptyRetrievalStillGenerates(t *testing.T) {
	ownerId := uuid.New()
	embedder := &fakeEmbedder{vector: make([]float32, 4)}
	retriever := &fakeRetriever{fragments: nil}
	generator := &fakeGenerator{answer: "I do not know based on the provided context."}
	svc := newTestService(embedder, retriever, generator)

	res, err := svc.Ask(context.Background(), &ownerId, &dto.AskRequest{Query: "Anything?"})

	assert.NoError(t, err)
	assert.Equal(t, 1, generator.calls, "no relevant context is not a pipeline failure")
	assert.Equal(t, "", generator.lastContext)
	assert.Empty(t, res.Sources)
	assert.NotEmpty(t, res.Answer)
}

func TestAskEmbeddingFailureShortCircuits(t *testing.T) {
	ownerId := uuid.New()
	embedder := &fakeEmbedder{err: errors.New("rate limited")}
	retriever := &fakeRetriever{}
	generator := &fakeGenerator{}
	svc := newTestService(embedder, retriever, generator)

	res, err := svc.Ask(context.Background(), &ownerId, &dto.AskRequest{Query: "query"})

	assert.Nil(t, res, "no partial response on failure")
	assert.True(t, apperr.IsKind(err, apperr.KindUpstreamUnavailable))
	assert.Equal(t, apperr.StageEmbedding, apperr.StageOf(err))
	assert.Equal(t, 0, retriever.calls, "retrieval must not run after embedding failure")
	assert.Equal(t, 0, generator.calls, "generation must not run after embedding failure")
}

func TestAskRetrievalFailureShortCircuits(t *testing.T) {
	ownerId := uuid.New()
	embedder := &fakeEmbedder{vector: make([]float32, 4)}
	retriever := &fakeRetriever{err: apperr.New(apperr.KindUpstreamUnavailable, apperr.StageRetrieval, "vector store unavailable")}
	generator := &fakeGenerator{}
	svc := newTestService(embedder, retriever, generator)

	res, err := svc.Ask(context.Background(), &ownerId, &dto.AskRequest{Query: "query"})

	assert.Nil(t, res)
	assert.Equal(t, apperr.StageRetrieval, apperr.StageOf(err))
	assert.Equal(t, 0, generator.calls, "no partial context may reach generation")
}

func TestAskRejectsWrongEmbeddingDimension(t *testing.T) {
	ownerId := uuid.New()
	embedder := &fakeEmbedder{vector: make([]float32, 3)} // service expects 4
	retriever := &fakeRetriever{}
	generator := &fakeGenerator{}
	svc := newTestService(embedder, retriever, generator)

	_, err := svc.Ask(context.Background(), &ownerId, &dto.AskRequest{Query: "query"})

	assert.True(t, apperr.IsKind(err, apperr.KindDimensionMismatch))
	assert.Equal(t, 0, retriever.calls, "mismatched vector must not reach the store")
}

func TestAskGenerationFailureReturnsSingleError(t *testing.T) {
	ownerId := uuid.New()
	embedder := &fakeEmbedder{vector: make([]float32, 4)}
	retriever := &fakeRetriever{fragments: []retrieve.Fragment{
		{Id: uuid.New(), Content: "some context", Score: 0.8},
	}}
	generator := &fakeGenerator{err: apperr.New(apperr.KindContentPolicy, apperr.StageGeneration, "model declined to answer")}
	svc := newTestService(embedder, retriever, generator)

	res, err := svc.Ask(context.Background(), &ownerId, &dto.AskRequest{Query: "query"})

	assert.Nil(t, res, "either a complete answer or a single error, never both")
	assert.True(t, apperr.IsKind(err, apperr.KindContentPolicy))
}
