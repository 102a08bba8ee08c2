package answer

import (
	"context"
	"fmt"

	"ai-docsearch-be/internal/pkg/logger"
	"ai-docsearch-be/pkg/apperr"
	"ai-docsearch-be/pkg/llm"
)

// Generator produces a grounded answer from assembled context and the
// original query. The system instruction is fixed at construction and is
// part of the contract; it must handle an empty context gracefully.
type Generator struct {
	llmProvider       llm.LLMProvider
	systemInstruction string
	logger            logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, systemInstruction string, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider:       llmProvider,
		systemInstruction: systemInstruction,
		logger:            log,
	}
}

// Generate sends system instruction + context + query to the model. An empty
// contextText is valid: the instruction tells the model to state that it does
// not know rather than fabricate.
func (g *Generator) Generate(ctx context.Context, contextText, query string) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: g.systemInstruction},
		{Role: "user", Content: fmt.Sprintf("Context: %s\n\nQuestion: %s", contextText, query)},
	}

	reply, err := g.llmProvider.Chat(ctx, history)
	if err != nil {
		g.logger.Error("GENERATION", "answer generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", apperr.WrapUpstream(apperr.StageGeneration, "generation service unavailable", err)
	}

	return reply, nil
}
