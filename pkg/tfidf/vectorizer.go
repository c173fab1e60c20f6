package tfidf

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// defaultTokenPattern matches runs of two or more word characters.
var defaultTokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Norm selects row normalization.
type Norm string

const (
	NormL2   Norm = "l2"
	NormL1   Norm = "l1"
	NormNone Norm = "none"
)

// Config holds vectorizer settings. The zero value is not the default; use
// DefaultConfig.
type Config struct {
	Stopwords   StopwordSet
	Lowercase   bool
	SmoothIDF   bool
	SublinearTF bool
	Norm        Norm
}

// DefaultConfig returns the scikit-learn defaults with English stopwords.
func DefaultConfig() Config {
	return Config{
		Stopwords: EnglishStopwords(),
		Lowercase: true,
		SmoothIDF: true,
		Norm:      NormL2,
	}
}

// Vectorizer is the built-in Weighter.
type Vectorizer struct {
	config Config
}

var _ Weighter = (*Vectorizer)(nil)

// NewVectorizer creates a Vectorizer. An empty Norm means L2.
func NewVectorizer(config Config) (*Vectorizer, error) {
	switch config.Norm {
	case "":
		config.Norm = NormL2
	case NormL2, NormL1, NormNone:
	default:
		return nil, fmt.Errorf("unknown norm %q", config.Norm)
	}
	return &Vectorizer{config: config}, nil
}

// Tokenize splits text into the terms the vectorizer counts, stopwords
// removed.
func (v *Vectorizer) Tokenize(text string) []string {
	if v.config.Lowercase {
		text = strings.ToLower(text)
	}
	raw := defaultTokenPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if !v.config.Stopwords.Contains(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// FitTransform learns the vocabulary and idf of texts and returns their
// weights.
func (v *Vectorizer) FitTransform(texts []string) (*Matrix, error) {
	counts := make([]map[string]int, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		c := make(map[string]int)
		for _, tok := range v.Tokenize(text) {
			c[tok]++
		}
		for term := range c {
			df[term]++
		}
		counts[i] = c
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		d := float64(df[term])
		if v.config.SmoothIDF {
			idf[i] = math.Log((1+n)/(1+d)) + 1
		} else {
			idf[i] = math.Log(n/d) + 1
		}
	}

	rows := make([]Row, len(texts))
	for i, c := range counts {
		row := Row{
			Indices: make([]int, 0, len(c)),
			Weights: make([]float64, 0, len(c)),
		}
		for term := range c {
			row.Indices = append(row.Indices, index[term])
		}
		sort.Ints(row.Indices)
		for _, idx := range row.Indices {
			tf := float64(c[vocab[idx]])
			if v.config.SublinearTF {
				tf = 1 + math.Log(tf)
			}
			row.Weights = append(row.Weights, tf*idf[idx])
		}
		normalize(row.Weights, v.config.Norm)
		rows[i] = row
	}

	return &Matrix{Vocabulary: vocab, Rows: rows}, nil
}

func normalize(w []float64, norm Norm) {
	var sum float64
	switch norm {
	case NormL2:
		for _, x := range w {
			sum += x * x
		}
		sum = math.Sqrt(sum)
	case NormL1:
		for _, x := range w {
			sum += math.Abs(x)
		}
	default:
		return
	}
	if sum == 0 {
		return
	}
	for i := range w {
		w[i] /= sum
	}
}
