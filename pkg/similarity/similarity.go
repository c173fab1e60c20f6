// Package similarity finds node pairs whose embeddings have a cosine
// similarity strictly above a threshold.
//
// A zero-norm embedding has similarity 0 with every other vector, so for any
// threshold in [0, 1] it never forms a pair. Results that are NaN are
// skipped and results above 1 from rounding are clamped to 1.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/soundprediction/correlato/pkg/types"
	"github.com/soundprediction/correlato/pkg/utils"
)

// DefaultThreshold is the similarity threshold used when none is configured.
const DefaultThreshold = 0.8

var (
	// ErrLengthMismatch is returned when ids and vectors differ in length.
	ErrLengthMismatch = errors.New("ids and embeddings differ in length")

	// ErrDimensionMismatch is returned when embeddings differ in dimension.
	ErrDimensionMismatch = errors.New("embeddings differ in dimension")

	// ErrInvalidThreshold is returned for thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be within [0, 1]")
)

// Config configures an Engine.
type Config struct {
	// Threshold is exclusive: pairs need similarity > Threshold.
	Threshold float64
	// Workers bounds the number of row partitions computed in parallel.
	// Values below 2 run sequentially.
	Workers  int
	Logger   *slog.Logger
	Progress utils.ProgressFunc
}

// Engine computes thresholded pairwise cosine similarity.
type Engine struct {
	config Config
	logger *slog.Logger
}

// NewEngine validates config and creates an Engine.
func NewEngine(config Config) (*Engine, error) {
	if math.IsNaN(config.Threshold) || config.Threshold < 0 || config.Threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, config.Threshold)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{config: config, logger: logger}, nil
}

// Threshold returns the configured threshold.
func (e *Engine) Threshold() float64 {
	return e.config.Threshold
}

// Pairs compares every unordered pair (i, j), i < j, and returns those with
// similarity above the threshold in (i, j) enumeration order. ids[i] names
// vectors[i].
func (e *Engine) Pairs(ctx context.Context, ids []string, vectors [][]float32) ([]types.SimilarityPair, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("%w: %d ids, %d embeddings", ErrLengthMismatch, len(ids), len(vectors))
	}
	n := len(vectors)
	if n < 2 {
		return []types.SimilarityPair{}, nil
	}

	dim := len(vectors[0])
	norms := make([]float64, n)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: embedding %d has %d dimensions, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		norms[i] = utils.Magnitude(v)
		if norms[i] == 0 {
			e.logger.Warn("Zero-norm embedding, similarity treated as 0", "id", ids[i], "index", i)
		}
	}

	var done atomic.Int64
	rows := func(ctx context.Context, r utils.Range) ([]types.SimilarityPair, error) {
		out := make([]types.SimilarityPair, 0)
		for i := r.Start; i < r.End; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for j := i + 1; j < n; j++ {
				sim := utils.CosineWithNorms(vectors[i], vectors[j], norms[i], norms[j])
				if math.IsNaN(sim) || !(sim > e.config.Threshold) {
					continue
				}
				out = append(out, types.SimilarityPair{
					StartID:    ids[i],
					EndID:      ids[j],
					Similarity: math.Min(sim, 1),
				})
				e.logger.Debug("Found similar pair", "start_id", ids[i], "end_id", ids[j], "similarity", sim)
			}
			if e.config.Progress != nil {
				e.config.Progress(int(done.Add(1)), n-1)
			}
		}
		return out, nil
	}

	parts, err := utils.RunPartitions(ctx, max(e.config.Workers, 1), utils.PartitionPairs(n, partitionCount(e.config.Workers)), rows)
	if err != nil {
		return nil, err
	}
	return utils.Flatten(parts), nil
}

// partitionCount over-partitions relative to workers so the last partitions
// do not leave workers idle.
func partitionCount(workers int) int {
	if workers < 2 {
		return 1
	}
	return workers * 4
}
