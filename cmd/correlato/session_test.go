package correlato

import (
	"io"
	"log/slog"
	"testing"

	"github.com/soundprediction/correlato/pkg/config"
	"github.com/soundprediction/correlato/pkg/embedder"
	"github.com/soundprediction/correlato/pkg/tfidf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)
	return cfg
}

func TestOverrideConfigWithFlags(t *testing.T) {
	cmd := &cobra.Command{}
	addAnalysisFlags(cmd)
	cmd.Flags().Bool("repair", false, "")
	require.NoError(t, cmd.Flags().Set("workers", "4"))
	require.NoError(t, cmd.Flags().Set("similarity-threshold", "0.5"))
	require.NoError(t, cmd.Flags().Set("repair", "true"))

	cfg := defaultConfig(t)
	overrideConfigWithFlags(cmd, cfg)

	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 0.5, cfg.Analysis.SimilarityThreshold)
	assert.True(t, cfg.Input.Repair)
	// Unchanged flags keep the config values.
	assert.Equal(t, 0.2, cfg.Analysis.KeywordThreshold)
	assert.Equal(t, "embedeverything", cfg.Embedding.Provider)
}

func TestBuildWeighter(t *testing.T) {
	tests := []struct {
		name      string
		stopwords string
		wantErr   bool
		wantTerms []string
	}{
		{name: "english", stopwords: "english", wantTerms: []string{"sales", "rose"}},
		{name: "none", stopwords: "none", wantTerms: []string{"the", "sales", "rose"}},
		{name: "unknown", stopwords: "klingon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			cfg.TFIDF.Stopwords = tt.stopwords
			s := &session{cfg: cfg}

			w, err := s.buildWeighter()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			v, ok := w.(*tfidf.Vectorizer)
			require.True(t, ok)
			assert.Equal(t, tt.wantTerms, v.Tokenize("The sales rose"))
		})
	}
}

func TestBuildAnalyzerRejectsInvalidOptions(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Analysis.SimilarityThreshold = 2
	s := &session{cfg: cfg}

	_, _, err := s.buildAnalyzer(false)
	assert.Error(t, err)
}

func TestBuildEmbedder(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		breaker  bool
		wantErr  error
		wantType any
	}{
		{name: "retry wrapper", provider: "openai", wantType: &embedder.RetryClient{}},
		{name: "provider is case insensitive", provider: "OpenAI", wantType: &embedder.RetryClient{}},
		{name: "circuit breaker outermost", provider: "openai", breaker: true, wantType: &embedder.CircuitBreakerClient{}},
		{name: "unknown provider", provider: "word2vec", wantErr: embedder.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			cfg.Embedding.Provider = tt.provider
			cfg.Embedding.APIKey = "test-key"
			cfg.CircuitBreaker.Enabled = tt.breaker
			s := &session{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

			client, err := s.buildEmbedder()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer client.Close()
			assert.IsType(t, tt.wantType, client)
		})
	}
}
