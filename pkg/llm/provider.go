package llm

import (
	"context"
)

// Message is a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option sets optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract for any generative model backend.
type LLMProvider interface {
	// Chat sends a message history to the model and returns the reply text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
}
