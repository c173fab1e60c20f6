package embedder

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider names an embedding backend.
type Provider string

const (
	ProviderEmbedEverything Provider = "embedeverything"
	ProviderOpenAI          Provider = "openai"
	ProviderOllama          Provider = "ollama"
)

// Default models and dimensions per provider.
const (
	DefaultEmbedEverythingModel = "sentence-transformers/paraphrase-MiniLM-L6-v2"
	DefaultOpenAIModel          = "text-embedding-3-small"
	DefaultOllamaModel          = "nomic-embed-text"
	DefaultOllamaBaseURL        = "http://localhost:11434"

	DefaultBatchSize = 64
)

var (
	// ErrEmptyResponse is returned when a provider returns no embeddings.
	ErrEmptyResponse = errors.New("no embeddings returned")

	// ErrLengthMismatch is returned when a provider returns a different number
	// of embeddings than texts.
	ErrLengthMismatch = errors.New("embedding count does not match text count")

	// ErrUnknownProvider is returned by New for unrecognized providers.
	ErrUnknownProvider = errors.New("unknown embedding provider")
)

// Client generates dense vector embeddings for texts.
type Client interface {
	// Embed returns one embedding per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedSingle embeds one text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the embedding dimension, or 0 if unknown.
	Dimensions() int
	// Close releases provider resources.
	Close() error
}

// Config holds embedder configuration shared by all providers.
type Config struct {
	Provider   Provider `mapstructure:"provider"`
	Model      string   `mapstructure:"model"`
	BaseURL    string   `mapstructure:"base_url"`
	APIKey     string   `mapstructure:"api_key"`
	BatchSize  int      `mapstructure:"batch_size"`
	Dimensions int      `mapstructure:"dimensions"`
}

// New creates the client for config.Provider. An empty provider selects
// EmbedEverything.
func New(config Config) (Client, error) {
	switch Provider(strings.ToLower(string(config.Provider))) {
	case "", ProviderEmbedEverything:
		return NewEmbedEverythingClient(&EmbedEverythingConfig{Config: &config})
	case ProviderOpenAI:
		return NewOpenAIEmbedder(config.APIKey, config), nil
	case ProviderOllama:
		return NewOllamaEmbedder(config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Provider)
	}
}

// embedInBatches calls fn on consecutive slices of at most size texts and
// concatenates the results, checking that every batch is aligned.
func embedInBatches(ctx context.Context, texts []string, size int, fn func(ctx context.Context, batch []string) ([][]float32, error)) ([][]float32, error) {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+size, len(texts))
		batch, err := fn(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if err := checkAligned(end-start, batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func checkAligned(want int, got [][]float32) error {
	if len(got) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(got), want)
	}
	return nil
}

// embedSingle adapts an Embed call to a single text.
func embedSingle(ctx context.Context, c Client, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, ErrEmptyResponse
	}
	return embeddings[0], nil
}
