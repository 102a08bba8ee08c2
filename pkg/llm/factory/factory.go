package factory

import (
	"fmt"

	"ai-docsearch-be/pkg/llm"
	"ai-docsearch-be/pkg/llm/ollama"
	"ai-docsearch-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, openAIKey, openAIBaseURL, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(openAIKey, openAIBaseURL, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
