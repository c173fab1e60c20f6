package embedder

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaEmbedder implements Client against a local Ollama server.
type OllamaEmbedder struct {
	llm    *ollama.LLM
	config Config
}

// NewOllamaEmbedder creates an Ollama embedder. BaseURL defaults to the
// local Ollama port.
func NewOllamaEmbedder(config Config) (*OllamaEmbedder, error) {
	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultOllamaBaseURL
	}

	llm, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaEmbedder{llm: llm, config: config}, nil
}

// Embed generates embeddings for the given texts.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	return embedInBatches(ctx, texts, e.config.BatchSize, func(ctx context.Context, batch []string) ([][]float32, error) {
		embeddings, err := e.llm.CreateEmbedding(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("ollama embedding failed: %w", err)
		}
		return embeddings, nil
	})
}

// EmbedSingle generates an embedding for a single text.
func (e *OllamaEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedSingle(ctx, e, text)
}

// Dimensions returns the configured dimension; Ollama does not report it up
// front.
func (e *OllamaEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// Close is a no-op.
func (e *OllamaEmbedder) Close() error {
	return nil
}
