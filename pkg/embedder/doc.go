// Package embedder provides text embedding clients for vector representations.
//
// This package defines the Client interface and provides implementations for
// local and remote embedding providers. The analyzer consumes one dense vector
// per text, aligned by position with its input.
//
// # Supported Providers
//
// The following embedding providers are supported:
//   - embedeverything: local models via go-embedeverything (default,
//     paraphrase-MiniLM-L6-v2)
//   - openai: text-embedding-3-small, text-embedding-3-large,
//     text-embedding-ada-002 and OpenAI-compatible servers
//   - ollama: any embedding model served by Ollama
//
// # Usage
//
//	client, err := embedder.New(embedder.Config{
//	    Provider:  embedder.ProviderOpenAI,
//	    Model:     "text-embedding-3-small",
//	    APIKey:    os.Getenv("OPENAI_API_KEY"),
//	    BatchSize: 100,
//	})
//
//	embeddings, err := client.Embed(ctx, []string{"hello world"})
//
// # Resilience
//
// Remote providers can be wrapped with NewRetryClient for exponential backoff
// on transient failures and NewCircuitBreakerClient to stop calling a provider
// that keeps failing.
package embedder
