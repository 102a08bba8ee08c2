package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Ai.EmbeddingDimensions != 1536 {
		t.Errorf("EmbeddingDimensions = %d, want 1536", cfg.Ai.EmbeddingDimensions)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Threshold != 0.0 {
		t.Errorf("Threshold = %v, want 0.0", cfg.Retrieval.Threshold)
	}
	if cfg.Retrieval.AnonymousPolicy != "reject" {
		t.Errorf("AnonymousPolicy = %q, want reject by default", cfg.Retrieval.AnonymousPolicy)
	}
	if cfg.Retrieval.StageTimeoutSeconds != 60 {
		t.Errorf("StageTimeoutSeconds = %d, want 60", cfg.Retrieval.StageTimeoutSeconds)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RETRIEVAL_THRESHOLD", "0.75")
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("RETRIEVAL_ANONYMOUS_POLICY", "public")
	t.Setenv("RETRIEVAL_MAX_CONTEXT_CHARS", "4000")
	t.Setenv("EMBEDDING_DIMENSIONS", "768")
	t.Setenv("EMBEDDING_PROVIDER", "ollama")

	cfg := Load()

	if cfg.Retrieval.Threshold != 0.75 {
		t.Errorf("Threshold = %v, want 0.75", cfg.Retrieval.Threshold)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.AnonymousPolicy != "public" {
		t.Errorf("AnonymousPolicy = %q, want public", cfg.Retrieval.AnonymousPolicy)
	}
	if cfg.Retrieval.MaxContextChars != 4000 {
		t.Errorf("MaxContextChars = %d, want 4000", cfg.Retrieval.MaxContextChars)
	}
	if cfg.Ai.EmbeddingDimensions != 768 {
		t.Errorf("EmbeddingDimensions = %d, want 768", cfg.Ai.EmbeddingDimensions)
	}
	if cfg.Ai.EmbeddingProvider != "ollama" {
		t.Errorf("EmbeddingProvider = %q, want ollama", cfg.Ai.EmbeddingProvider)
	}
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "five")
	t.Setenv("RETRIEVAL_THRESHOLD", "lots")

	cfg := Load()

	if cfg.Retrieval.TopK != 5 {
		t.Errorf("TopK = %d, want fallback 5 on malformed value", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Threshold != 0.0 {
		t.Errorf("Threshold = %v, want fallback 0.0 on malformed value", cfg.Retrieval.Threshold)
	}
}
