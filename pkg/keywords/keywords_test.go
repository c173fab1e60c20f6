package keywords

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/correlato/pkg/tfidf"
	"github.com/soundprediction/correlato/pkg/types"
)

func fixtureMatrix() *tfidf.Matrix {
	return &tfidf.Matrix{
		Vocabulary: []string{"alpha", "beta", "gamma", "the"},
		Rows: []tfidf.Row{
			{Indices: []int{0, 1, 3}, Weights: []float64{0.5, 0.1, 0.9}},
			{Indices: []int{0, 1, 3}, Weights: []float64{0.6, 0.5, 0.9}},
			{Indices: []int{1, 2}, Weights: []float64{0.7, 0.3}},
			{Indices: []int{0, 2}, Weights: []float64{0.2, 0.2}},
		},
	}
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantErr  error
		strategy Strategy
	}{
		{"defaults", Config{Threshold: DefaultThreshold}, nil, StrategyPairwise},
		{"postings", Config{Threshold: 0.5, Strategy: StrategyPostings}, nil, StrategyPostings},
		{"negative threshold", Config{Threshold: -1}, ErrInvalidThreshold, ""},
		{"threshold above one", Config{Threshold: 1.01}, ErrInvalidThreshold, ""},
		{"unknown strategy", Config{Threshold: 0.2, Strategy: "magic"}, ErrUnknownStrategy, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, e.Strategy())
		})
	}
}

func TestPairs(t *testing.T) {
	ids := []string{"n0", "n1", "n2", "n3"}
	want := []types.KeywordPair{
		{StartID: "n0", EndID: "n1", Keywords: []string{"alpha"}},
		{StartID: "n1", EndID: "n2", Keywords: []string{"beta"}},
	}

	for _, strategy := range []Strategy{StrategyPairwise, StrategyPostings} {
		t.Run(string(strategy), func(t *testing.T) {
			e, err := NewEngine(Config{
				Threshold: 0.2,
				Stopwords: tfidf.NewStopwordSet("the"),
				Strategy:  strategy,
			})
			require.NoError(t, err)

			got, err := e.Pairs(context.Background(), ids, fixtureMatrix())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPairsUnsortedRows(t *testing.T) {
	m := &tfidf.Matrix{
		Vocabulary: []string{"alpha", "beta", "gamma"},
		Rows: []tfidf.Row{
			{Indices: []int{2, 0}, Weights: []float64{0.9, 0.9}},
			{Indices: []int{0}, Weights: []float64{0.9}},
		},
	}
	want := []types.KeywordPair{{StartID: "a", EndID: "b", Keywords: []string{"alpha"}}}

	for _, strategy := range []Strategy{StrategyPairwise, StrategyPostings} {
		t.Run(string(strategy), func(t *testing.T) {
			e, err := NewEngine(Config{Threshold: 0.2, Strategy: strategy})
			require.NoError(t, err)

			got, err := e.Pairs(context.Background(), []string{"a", "b"}, m)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPairsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		rows []tfidf.Row
	}{
		{"index past vocabulary", []tfidf.Row{
			{Indices: []int{5}, Weights: []float64{0.9}},
			{Indices: []int{0}, Weights: []float64{0.9}},
		}},
		{"length mismatch", []tfidf.Row{
			{Indices: []int{0}, Weights: []float64{0.9, 0.8}},
			{Indices: []int{0}, Weights: []float64{0.9}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(Config{Threshold: 0.2})
			require.NoError(t, err)

			m := &tfidf.Matrix{Vocabulary: []string{"alpha"}, Rows: tt.rows}
			_, err = e.Pairs(context.Background(), []string{"a", "b"}, m)
			assert.ErrorIs(t, err, tfidf.ErrMalformedMatrix)
		})
	}
}

func TestPairsWithoutStopwords(t *testing.T) {
	e, err := NewEngine(Config{Threshold: 0.2})
	require.NoError(t, err)

	got, err := e.Pairs(context.Background(), []string{"n0", "n1", "n2", "n3"}, fixtureMatrix())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"alpha", "the"}, got[0].Keywords)
}

func TestPairsDegenerate(t *testing.T) {
	e, err := NewEngine(Config{Threshold: 0.2})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("nil matrix", func(t *testing.T) {
		got, err := e.Pairs(ctx, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty vocabulary", func(t *testing.T) {
		m := &tfidf.Matrix{Vocabulary: []string{}, Rows: []tfidf.Row{{}, {}}}
		got, err := e.Pairs(ctx, []string{"a", "b"}, m)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := e.Pairs(ctx, []string{"a"}, fixtureMatrix())
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestPairsFromVectorizer(t *testing.T) {
	v, err := tfidf.NewVectorizer(tfidf.DefaultConfig())
	require.NoError(t, err)

	m, err := v.FitTransform([]string{
		"Sales increased due to low prices.",
		"Demand rose because prices were low.",
	})
	require.NoError(t, err)

	e, err := NewEngine(Config{Threshold: 0.2, Stopwords: tfidf.EnglishStopwords()})
	require.NoError(t, err)

	got, err := e.Pairs(context.Background(), []string{"1", "2"}, m)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"low", "prices"}, got[0].Keywords)
}

func TestStrategiesAgree(t *testing.T) {
	texts := make([]string, 0, 40)
	words := []string{"market", "price", "demand", "supply", "growth", "risk", "policy", "rate"}
	for i := range 40 {
		texts = append(texts, fmt.Sprintf("%s %s %s report %d",
			words[i%len(words)], words[(i*3)%len(words)], words[(i*5+1)%len(words)], i))
	}
	ids := make([]string, len(texts))
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}

	v, err := tfidf.NewVectorizer(tfidf.DefaultConfig())
	require.NoError(t, err)
	m, err := v.FitTransform(texts)
	require.NoError(t, err)

	base, err := NewEngine(Config{Threshold: 0.1, Stopwords: tfidf.EnglishStopwords()})
	require.NoError(t, err)
	want, err := base.Pairs(context.Background(), ids, m)
	require.NoError(t, err)
	require.NotEmpty(t, want)

	for _, strategy := range []Strategy{StrategyPairwise, StrategyPostings} {
		for _, workers := range []int{1, 4} {
			t.Run(fmt.Sprintf("%s/workers=%d", strategy, workers), func(t *testing.T) {
				e, err := NewEngine(Config{
					Threshold: 0.1,
					Stopwords: tfidf.EnglishStopwords(),
					Strategy:  strategy,
					Workers:   workers,
				})
				require.NoError(t, err)
				got, err := e.Pairs(context.Background(), ids, m)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			})
		}
	}
}

func TestIntersect(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []int{2, 5}, intersect([]int{1, 2, 5, 9}, []int{2, 3, 5}))
	assert.Empty(t, intersect([]int{1}, []int{2}))
	assert.Empty(t, intersect(nil, []int{2}))
}
