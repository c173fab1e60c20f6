package correlato

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/correlato/pkg/patterns"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, 0.8, opts.SimilarityThreshold)
	assert.Equal(t, 0.2, opts.KeywordThreshold)
	assert.Equal(t, 1, opts.Workers)
	assert.Equal(t, patterns.DefaultCausalPhrases, opts.CausalPhrases)
	assert.Equal(t, patterns.DefaultHeadingPatterns, opts.HeadingPatterns)
	assert.Equal(t, "pairwise", opts.KeywordStrategy)
	assert.NoError(t, opts.Validate())

	// Defaults are copies.
	opts.CausalPhrases[0] = "changed"
	assert.Equal(t, "because", patterns.DefaultCausalPhrases[0])
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		field  string
	}{
		{"similarity below zero", func(o *Options) { o.SimilarityThreshold = -0.01 }, "similarity_threshold"},
		{"similarity above one", func(o *Options) { o.SimilarityThreshold = 1.01 }, "similarity_threshold"},
		{"similarity nan", func(o *Options) { o.SimilarityThreshold = math.NaN() }, "similarity_threshold"},
		{"keyword above one", func(o *Options) { o.KeywordThreshold = 2 }, "keyword_threshold"},
		{"negative workers", func(o *Options) { o.Workers = -1 }, "workers"},
		{"unknown strategy", func(o *Options) { o.KeywordStrategy = "bm25" }, "keyword_strategy"},
		{"bad heading pattern", func(o *Options) { o.HeadingPatterns = []string{"("} }, "heading_patterns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)

			err := opts.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOptions)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("boundaries are valid", func(t *testing.T) {
		opts := DefaultOptions()
		opts.SimilarityThreshold = 0
		opts.KeywordThreshold = 1
		assert.NoError(t, opts.Validate())
	})
}

func TestOptionsFromMap(t *testing.T) {
	t.Run("overrides named keys", func(t *testing.T) {
		opts, err := OptionsFromMap(map[string]any{
			"similarity_threshold": 0.9,
			"keyword_threshold":    "0.35",
			"workers":              4,
			"causal_phrases":       []string{"owing to"},
			"keyword_strategy":     "postings",
			"extra_stopwords":      []any{"report"},
		})
		require.NoError(t, err)

		assert.Equal(t, 0.9, opts.SimilarityThreshold)
		assert.Equal(t, 0.35, opts.KeywordThreshold)
		assert.Equal(t, 4, opts.Workers)
		assert.Equal(t, []string{"owing to"}, opts.CausalPhrases)
		assert.Equal(t, patterns.DefaultHeadingPatterns, opts.HeadingPatterns)
		assert.Equal(t, "postings", opts.KeywordStrategy)
		assert.Equal(t, []string{"report"}, opts.ExtraStopwords)
	})

	t.Run("empty map keeps defaults", func(t *testing.T) {
		opts, err := OptionsFromMap(map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, DefaultOptions().SimilarityThreshold, opts.SimilarityThreshold)
		assert.Equal(t, DefaultOptions().CausalPhrases, opts.CausalPhrases)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := OptionsFromMap(map[string]any{"simlarity_threshold": 0.5})
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := OptionsFromMap(map[string]any{"keyword_threshold": 1.5})
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})
}
