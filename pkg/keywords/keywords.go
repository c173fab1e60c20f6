// Package keywords finds node pairs that share significant TF-IDF terms.
//
// A term is significant for a node when its weight in that node's row is
// strictly above the threshold and it is not a stopword. Two nodes pair when
// they share at least one significant term. Keywords are listed in vocabulary
// order.
package keywords

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync/atomic"

	"github.com/soundprediction/correlato/pkg/tfidf"
	"github.com/soundprediction/correlato/pkg/types"
	"github.com/soundprediction/correlato/pkg/utils"
)

// DefaultThreshold is the keyword weight threshold used when none is configured.
const DefaultThreshold = 0.2

// Strategy selects how shared terms are found.
type Strategy string

const (
	// StrategyPairwise intersects the sorted rows of every pair.
	StrategyPairwise Strategy = "pairwise"
	// StrategyPostings joins per-term posting lists; it skips pairs that
	// share nothing.
	StrategyPostings Strategy = "postings"
)

var (
	// ErrInvalidThreshold is returned for thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("keyword threshold must be within [0, 1]")

	// ErrUnknownStrategy is returned for unrecognized strategies.
	ErrUnknownStrategy = errors.New("unknown keyword strategy")

	// ErrLengthMismatch is returned when ids and matrix rows differ in length.
	ErrLengthMismatch = errors.New("ids and term rows differ in length")
)

// Config configures an Engine.
type Config struct {
	// Threshold is exclusive: a term counts when its weight > Threshold.
	Threshold float64
	// Stopwords are never reported as keywords. Nil means no filtering.
	Stopwords tfidf.StopwordSet
	// Strategy defaults to StrategyPairwise.
	Strategy Strategy
	// Workers bounds the number of row partitions computed in parallel.
	Workers  int
	Logger   *slog.Logger
	Progress utils.ProgressFunc
}

// Engine computes keyword-overlap pairs.
type Engine struct {
	config Config
	logger *slog.Logger
}

// NewEngine validates config and creates an Engine.
func NewEngine(config Config) (*Engine, error) {
	if math.IsNaN(config.Threshold) || config.Threshold < 0 || config.Threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, config.Threshold)
	}
	switch config.Strategy {
	case "":
		config.Strategy = StrategyPairwise
	case StrategyPairwise, StrategyPostings:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, config.Strategy)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{config: config, logger: logger}, nil
}

// Strategy returns the strategy in use.
func (e *Engine) Strategy() Strategy {
	return e.config.Strategy
}

// Pairs returns, for every i < j in enumeration order, the pairs whose
// significant terms intersect. ids[i] names m.Rows[i]. Rows with unsorted
// indices are sorted first; rows that do not fit the vocabulary are an error.
func (e *Engine) Pairs(ctx context.Context, ids []string, m *tfidf.Matrix) ([]types.KeywordPair, error) {
	if m == nil {
		return []types.KeywordPair{}, nil
	}
	if len(ids) != len(m.Rows) {
		return nil, fmt.Errorf("%w: %d ids, %d rows", ErrLengthMismatch, len(ids), len(m.Rows))
	}
	n := len(ids)
	if n < 2 || len(m.Vocabulary) == 0 {
		return []types.KeywordPair{}, nil
	}
	m, err := m.Canonical()
	if err != nil {
		return nil, err
	}

	significant := e.significantTerms(m)

	var rowFn func(i int) []types.KeywordPair
	switch e.config.Strategy {
	case StrategyPostings:
		postings := buildPostings(significant, len(m.Vocabulary))
		rowFn = func(i int) []types.KeywordPair {
			return e.postingsRow(i, ids, m, significant, postings)
		}
	default:
		rowFn = func(i int) []types.KeywordPair {
			return e.pairwiseRow(i, ids, m, significant)
		}
	}

	var done atomic.Int64
	run := func(ctx context.Context, r utils.Range) ([]types.KeywordPair, error) {
		out := make([]types.KeywordPair, 0)
		for i := r.Start; i < r.End; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out = append(out, rowFn(i)...)
			if e.config.Progress != nil {
				e.config.Progress(int(done.Add(1)), n-1)
			}
		}
		return out, nil
	}

	workers := max(e.config.Workers, 1)
	parts := 1
	if workers > 1 {
		parts = workers * 4
	}
	res, err := utils.RunPartitions(ctx, workers, utils.PartitionPairs(n, parts), run)
	if err != nil {
		return nil, err
	}
	return utils.Flatten(res), nil
}

// significantTerms returns, per row, the ascending column indices whose
// weight exceeds the threshold and whose term is not a stopword.
func (e *Engine) significantTerms(m *tfidf.Matrix) [][]int {
	out := make([][]int, len(m.Rows))
	for i, row := range m.Rows {
		cols := make([]int, 0, row.Len())
		for k, idx := range row.Indices {
			if row.Weights[k] > e.config.Threshold && !e.config.Stopwords.Contains(m.Term(idx)) {
				cols = append(cols, idx)
			}
		}
		out[i] = cols
	}
	return out
}

func (e *Engine) pairwiseRow(i int, ids []string, m *tfidf.Matrix, significant [][]int) []types.KeywordPair {
	var out []types.KeywordPair
	for j := i + 1; j < len(ids); j++ {
		shared := intersect(significant[i], significant[j])
		if len(shared) == 0 {
			continue
		}
		out = append(out, e.newPair(ids[i], ids[j], m, shared))
	}
	return out
}

func (e *Engine) postingsRow(i int, ids []string, m *tfidf.Matrix, significant [][]int, postings [][]int) []types.KeywordPair {
	shared := make(map[int][]int)
	for _, col := range significant[i] {
		docs := postings[col]
		// docs is ascending; only partners after i matter.
		k := sort.SearchInts(docs, i+1)
		for _, j := range docs[k:] {
			shared[j] = append(shared[j], col)
		}
	}
	if len(shared) == 0 {
		return nil
	}

	partners := make([]int, 0, len(shared))
	for j := range shared {
		partners = append(partners, j)
	}
	sort.Ints(partners)

	out := make([]types.KeywordPair, 0, len(partners))
	for _, j := range partners {
		out = append(out, e.newPair(ids[i], ids[j], m, shared[j]))
	}
	return out
}

func (e *Engine) newPair(startID, endID string, m *tfidf.Matrix, cols []int) types.KeywordPair {
	terms := make([]string, len(cols))
	for k, col := range cols {
		terms[k] = m.Term(col)
	}
	e.logger.Debug("Found keyword overlap", "start_id", startID, "end_id", endID, "keywords", terms)
	return types.KeywordPair{StartID: startID, EndID: endID, Keywords: terms}
}

// buildPostings maps each column to the ascending rows in which it is
// significant.
func buildPostings(significant [][]int, vocabSize int) [][]int {
	postings := make([][]int, vocabSize)
	for row, cols := range significant {
		for _, col := range cols {
			postings[col] = append(postings[col], row)
		}
	}
	return postings
}

// intersect merges two ascending index slices.
func intersect(a, b []int) []int {
	var out []int
	for x, y := 0, 0; x < len(a) && y < len(b); {
		switch {
		case a[x] < b[y]:
			x++
		case a[x] > b[y]:
			y++
		default:
			out = append(out, a[x])
			x++
			y++
		}
	}
	return out
}
