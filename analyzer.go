package correlato

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/correlato/pkg/embedder"
	"github.com/soundprediction/correlato/pkg/keywords"
	"github.com/soundprediction/correlato/pkg/patterns"
	"github.com/soundprediction/correlato/pkg/similarity"
	"github.com/soundprediction/correlato/pkg/tfidf"
	"github.com/soundprediction/correlato/pkg/types"
	"github.com/soundprediction/correlato/pkg/utils"
)

// Analyzer extracts the four relationship sets from a batch of nodes.
// An Analyzer holds no per-run state and may be reused.
type Analyzer struct {
	embedder     embedder.Client
	weighter     tfidf.Weighter
	causal       *patterns.CausalDetector
	hierarchical *patterns.HierarchicalDetector
	similarity   *similarity.Engine
	keywords     *keywords.Engine
	options      Options
	logger       *slog.Logger
}

// NewAnalyzer creates an Analyzer. emb is required. A nil weighter selects
// the built-in TF-IDF vectorizer with English stopwords plus
// opts.ExtraStopwords; a nil opts means DefaultOptions.
func NewAnalyzer(emb embedder.Client, weighter tfidf.Weighter, opts *Options) (*Analyzer, error) {
	if emb == nil {
		return nil, &ValidationError{Field: "embedder", Message: "an embedding client is required"}
	}
	options := DefaultOptions()
	if opts != nil {
		options = *opts
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stopwords := tfidf.EnglishStopwords().With(options.ExtraStopwords...)
	if weighter == nil {
		cfg := tfidf.DefaultConfig()
		cfg.Stopwords = stopwords
		v, err := tfidf.NewVectorizer(cfg)
		if err != nil {
			return nil, err
		}
		weighter = v
	}

	hierarchical, err := patterns.NewHierarchicalDetector(options.HeadingPatterns, logger)
	if err != nil {
		return nil, &ValidationError{Field: "heading_patterns", Message: err.Error()}
	}

	simEngine, err := similarity.NewEngine(similarity.Config{
		Threshold: options.SimilarityThreshold,
		Workers:   options.Workers,
		Logger:    logger,
		Progress:  stageProgress(options.Progress, StageSimilarity),
	})
	if err != nil {
		return nil, &ValidationError{Field: "similarity_threshold", Message: err.Error()}
	}

	kwEngine, err := keywords.NewEngine(keywords.Config{
		Threshold: options.KeywordThreshold,
		Stopwords: stopwords,
		Strategy:  keywords.Strategy(options.KeywordStrategy),
		Workers:   options.Workers,
		Logger:    logger,
		Progress:  stageProgress(options.Progress, StageKeywords),
	})
	if err != nil {
		return nil, &ValidationError{Field: "keyword_threshold", Message: err.Error()}
	}

	return &Analyzer{
		embedder:     emb,
		weighter:     weighter,
		causal:       patterns.NewCausalDetector(options.CausalPhrases, logger),
		hierarchical: hierarchical,
		similarity:   simEngine,
		keywords:     kwEngine,
		options:      options,
		logger:       logger,
	}, nil
}

// Options returns the options the Analyzer was built with.
func (a *Analyzer) Options() Options {
	return a.options
}

// Analyze filters raw and analyzes the valid nodes. See AnalyzeNodes.
func (a *Analyzer) Analyze(ctx context.Context, raw []types.RawNode) (*types.Result, error) {
	nodes := FilterNodes(raw)
	if dropped := len(raw) - len(nodes); dropped > 0 {
		a.logger.Info("Dropped invalid nodes", "dropped", dropped, "kept", len(nodes))
	}
	return a.AnalyzeNodes(ctx, nodes)
}

// AnalyzeNodes runs every detector and engine over nodes, which must already
// be filtered. Fewer than two nodes yield an empty result without calling
// the embedder or the weighter. A collaborator failure fails the whole run.
//
// Causal and hierarchical matches carry the node's index in nodes as their
// id; similarity and keyword pairs carry declared ids.
func (a *Analyzer) AnalyzeNodes(ctx context.Context, nodes []types.Node) (*types.Result, error) {
	if len(nodes) < 2 {
		a.logger.Info("Fewer than two valid nodes, nothing to compare", "nodes", len(nodes))
		return types.EmptyResult(), nil
	}

	start := time.Now()
	ids := types.IDs(nodes)
	contents := types.Contents(nodes)

	embeddings, err := a.embedder.Embed(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(embeddings) != len(nodes) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d nodes", ErrEmbedding, len(embeddings), len(nodes))
	}

	matrix, err := a.weighter.FitTransform(contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTermWeighting, err)
	}
	if matrix == nil || len(matrix.Rows) != len(nodes) {
		return nil, fmt.Errorf("%w: term rows do not match %d nodes", ErrTermWeighting, len(nodes))
	}
	matrix, err = matrix.Canonical()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTermWeighting, err)
	}
	a.logger.Debug("Computed collaborator outputs", "nodes", len(nodes), "vocabulary", len(matrix.Vocabulary))

	similar, err := a.similarity.Pairs(ctx, ids, embeddings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	keywordPairs, err := a.keywords.Pairs(ctx, ids, matrix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTermWeighting, err)
	}

	result := types.NewResult(
		similar,
		keywordPairs,
		a.causal.Detect(contents),
		a.hierarchical.Detect(contents),
	)

	a.logger.Info("Analysis complete",
		"nodes", len(nodes),
		"similar_pairs", len(result.SimilarPairs),
		"keyword_pairs", len(result.KeywordPairs),
		"causal_pairs", len(result.CausalPairs),
		"hierarchical_pairs", len(result.HierarchicalPairs),
		"duration", time.Since(start).String())

	return result, nil
}

func stageProgress(fn ProgressFunc, stage Stage) utils.ProgressFunc {
	if fn == nil {
		return nil
	}
	return func(done, total int) {
		fn(stage, done, total)
	}
}
