package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Vectorizer {
	t.Helper()
	v, err := NewVectorizer(DefaultConfig())
	require.NoError(t, err)
	return v
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	v := newDefault(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "stopwords removed", text: "Sales rose because demand increased.", want: []string{"sales", "rose", "demand", "increased"}},
		{name: "single chars dropped", text: "a b c dd", want: []string{"dd"}},
		{name: "contractions split", text: "Don't stop", want: []string{"stop"}},
		{name: "unicode words", text: "Café über_alles 42", want: []string{"café", "über_alles", "42"}},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Tokenize(tt.text))
		})
	}
}

func TestFitTransform(t *testing.T) {
	t.Parallel()
	v := newDefault(t)

	m, err := v.FitTransform([]string{
		"Sales rose because demand increased.",
		"Demand increased due to low prices.",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"demand", "due", "increased", "low", "prices", "rose", "sales"}, m.Vocabulary)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, []int{0, 2, 5, 6}, m.Rows[0].Indices)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, m.Rows[1].Indices)

	rare := math.Log(3.0/2.0) + 1
	norm0 := math.Sqrt(2 + 2*rare*rare)
	norm1 := math.Sqrt(2 + 3*rare*rare)
	assert.InDelta(t, 1/norm0, m.Rows[0].Weight(0), 1e-12)
	assert.InDelta(t, rare/norm0, m.Rows[0].Weight(6), 1e-12)
	assert.InDelta(t, 1/norm1, m.Rows[1].Weight(2), 1e-12)
	assert.Zero(t, m.Rows[0].Weight(1))

	for _, row := range m.Rows {
		var sq float64
		for _, w := range row.Weights {
			assert.Greater(t, w, 0.0)
			sq += w * w
		}
		assert.InDelta(t, 1.0, sq, 1e-12)
	}
}

func TestFitTransformRepeatedTerms(t *testing.T) {
	t.Parallel()

	t.Run("raw counts", func(t *testing.T) {
		v := newDefault(t)
		m, err := v.FitTransform([]string{"apple apple pear", "pear"})
		require.NoError(t, err)
		// apple: tf 2, idf ln(3/2)+1; pear: tf 1, idf 1
		apple := 2 * (math.Log(1.5) + 1)
		norm := math.Sqrt(apple*apple + 1)
		assert.InDelta(t, apple/norm, m.Rows[0].Weight(0), 1e-12)
		assert.InDelta(t, 1.0, m.Rows[1].Weight(1), 1e-12)
	})

	t.Run("sublinear and no norm", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SublinearTF = true
		cfg.Norm = NormNone
		v, err := NewVectorizer(cfg)
		require.NoError(t, err)
		m, err := v.FitTransform([]string{"apple apple pear", "pear"})
		require.NoError(t, err)
		assert.InDelta(t, (1+math.Log(2))*(math.Log(1.5)+1), m.Rows[0].Weight(0), 1e-12)
	})

	t.Run("unsmoothed idf", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SmoothIDF = false
		cfg.Norm = NormNone
		v, err := NewVectorizer(cfg)
		require.NoError(t, err)
		m, err := v.FitTransform([]string{"apple pear", "pear"})
		require.NoError(t, err)
		assert.InDelta(t, math.Log(2)+1, m.Rows[0].Weight(0), 1e-12)
		assert.InDelta(t, 1.0, m.Rows[0].Weight(1), 1e-12)
	})
}

func TestFitTransformDegenerate(t *testing.T) {
	t.Parallel()
	v := newDefault(t)

	t.Run("empty corpus", func(t *testing.T) {
		m, err := v.FitTransform(nil)
		require.NoError(t, err)
		assert.Empty(t, m.Vocabulary)
		assert.Empty(t, m.Rows)
	})

	t.Run("only stopwords", func(t *testing.T) {
		m, err := v.FitTransform([]string{"the and of", "it is a"})
		require.NoError(t, err)
		assert.Empty(t, m.Vocabulary)
		require.Len(t, m.Rows, 2)
		assert.Zero(t, m.Rows[0].Len())
	})
}

func TestNewVectorizerRejectsUnknownNorm(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Norm = "l3"
	_, err := NewVectorizer(cfg)
	assert.Error(t, err)
}

func TestStopwordSet(t *testing.T) {
	t.Parallel()
	s := EnglishStopwords()
	assert.Len(t, s, 179)
	assert.True(t, s.Contains("because"))
	assert.False(t, s.Contains("demand"))

	extended := s.With(" Demand ")
	assert.True(t, extended.Contains("demand"))
	assert.False(t, s.Contains("demand"), "With must not modify the receiver")

	var empty StopwordSet
	assert.False(t, empty.Contains("the"))
}

func TestCanonical(t *testing.T) {
	t.Parallel()
	vocab := []string{"alpha", "beta", "gamma"}

	t.Run("sorted rows are returned as is", func(t *testing.T) {
		m := &Matrix{Vocabulary: vocab, Rows: []Row{{Indices: []int{0, 2}, Weights: []float64{0.4, 0.6}}}}
		got, err := m.Canonical()
		require.NoError(t, err)
		assert.Same(t, m, got)
	})

	t.Run("unsorted rows are sorted with their weights", func(t *testing.T) {
		m := &Matrix{Vocabulary: vocab, Rows: []Row{
			{Indices: []int{2, 0}, Weights: []float64{0.6, 0.4}},
			{Indices: []int{1}, Weights: []float64{1}},
		}}
		got, err := m.Canonical()
		require.NoError(t, err)
		assert.Equal(t, Row{Indices: []int{0, 2}, Weights: []float64{0.4, 0.6}}, got.Rows[0])
		assert.Equal(t, m.Rows[1], got.Rows[1])
		assert.Equal(t, 0.6, got.Rows[0].Weight(2))
		// The input is left untouched.
		assert.Equal(t, []int{2, 0}, m.Rows[0].Indices)
	})

	tests := []struct {
		name string
		row  Row
	}{
		{"index past vocabulary", Row{Indices: []int{5}, Weights: []float64{0.9}}},
		{"negative index", Row{Indices: []int{-1}, Weights: []float64{0.9}}},
		{"length mismatch", Row{Indices: []int{0, 1}, Weights: []float64{0.9}}},
		{"repeated index", Row{Indices: []int{1, 0, 1}, Weights: []float64{0.1, 0.2, 0.3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Matrix{Vocabulary: vocab, Rows: []Row{tt.row}}
			_, err := m.Canonical()
			assert.ErrorIs(t, err, ErrMalformedMatrix)
		})
	}
}
