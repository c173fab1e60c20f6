package correlato

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/soundprediction/correlato"
	"github.com/soundprediction/correlato/pkg/config"
	"github.com/soundprediction/correlato/pkg/embedder"
	"github.com/soundprediction/correlato/pkg/logger"
	"github.com/soundprediction/correlato/pkg/telemetry"
	"github.com/soundprediction/correlato/pkg/tfidf"
	"github.com/soundprediction/correlato/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// session holds what every command needs for one run.
type session struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *slog.Logger
	runID     string
	telemetry *telemetry.ParquetHandler
	closers   []io.Closer
}

func newSession(cmd *cobra.Command, command string) (*session, error) {
	cfg, err := config.LoadFrom(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	handler, logCloser, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, runID: uuid.New().String(), closers: []io.Closer{logCloser}}

	if cfg.Telemetry.Enabled && cfg.Telemetry.ParquetPath != "" {
		ph, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath, cfg.Telemetry.BatchSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
		} else {
			handler = ph
			s.telemetry = ph
		}
	}

	s.logger = slog.New(handler).With("run_id", s.runID)

	ctx := context.WithValue(cmd.Context(), types.ContextKeyRunID, s.runID)
	s.ctx = context.WithValue(ctx, types.ContextKeyCommand, command)
	return s, nil
}

// Close flushes telemetry before releasing the log file.
func (s *session) Close() {
	if s.telemetry != nil {
		if err := s.telemetry.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to flush telemetry: %v\n", err)
		}
	}
	for _, c := range s.closers {
		c.Close()
	}
}

// fail logs err at error level so telemetry records it, then returns it.
func (s *session) fail(msg string, err error) error {
	s.logger.ErrorContext(s.ctx, msg, "error", err)
	return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
}

// buildEmbedder creates the configured provider wrapped in retry and,
// when enabled, a circuit breaker.
func (s *session) buildEmbedder() (embedder.Client, error) {
	e := s.cfg.Embedding
	client, err := embedder.New(embedder.Config{
		Provider:   embedder.Provider(e.Provider),
		Model:      e.Model,
		BaseURL:    e.BaseURL,
		APIKey:     e.APIKey,
		BatchSize:  e.BatchSize,
		Dimensions: e.Dimensions,
	})
	if err != nil {
		return nil, err
	}

	retry := embedder.DefaultRetryConfig()
	retry.MaxRetries = e.MaxRetries
	var wrapped embedder.Client = embedder.NewRetryClient(client, retry)

	if s.cfg.CircuitBreaker.Enabled {
		wrapped = embedder.NewCircuitBreakerClient(wrapped, s.cfg.CircuitBreaker, s.logger, e.Provider)
	}
	return wrapped, nil
}

// buildWeighter creates the TF-IDF vectorizer from the tfidf section.
func (s *session) buildWeighter() (tfidf.Weighter, error) {
	t := s.cfg.TFIDF
	var stopwords tfidf.StopwordSet
	switch strings.ToLower(t.Stopwords) {
	case "", "english":
		stopwords = tfidf.EnglishStopwords()
	case "none":
		stopwords = tfidf.NewStopwordSet()
	default:
		return nil, fmt.Errorf("unknown stopword list %q", t.Stopwords)
	}
	return tfidf.NewVectorizer(tfidf.Config{
		Stopwords:   stopwords.With(s.cfg.Keywords.ExtraStopwords...),
		Lowercase:   t.Lowercase,
		SmoothIDF:   t.SmoothIDF,
		SublinearTF: t.SublinearTF,
		Norm:        tfidf.Norm(strings.ToLower(t.Norm)),
	})
}

// buildAnalyzer assembles an Analyzer from config. The returned embedder
// must be closed by the caller.
func (s *session) buildAnalyzer(showProgress bool) (*correlato.Analyzer, embedder.Client, error) {
	opts := correlato.DefaultOptions()
	opts.SimilarityThreshold = s.cfg.Analysis.SimilarityThreshold
	opts.KeywordThreshold = s.cfg.Analysis.KeywordThreshold
	opts.Workers = s.cfg.Analysis.Workers
	opts.KeywordStrategy = s.cfg.Keywords.Strategy
	opts.ExtraStopwords = s.cfg.Keywords.ExtraStopwords
	if len(s.cfg.Patterns.CausalPhrases) > 0 {
		opts.CausalPhrases = s.cfg.Patterns.CausalPhrases
	}
	if len(s.cfg.Patterns.HeadingPatterns) > 0 {
		opts.HeadingPatterns = s.cfg.Patterns.HeadingPatterns
	}
	opts.Logger = s.logger
	if showProgress {
		opts.Progress = newProgress()
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	weighter, err := s.buildWeighter()
	if err != nil {
		return nil, nil, err
	}
	emb, err := s.buildEmbedder()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", correlato.ErrEmbedding, err)
	}

	analyzer, err := correlato.NewAnalyzer(emb, weighter, &opts)
	if err != nil {
		emb.Close()
		return nil, nil, err
	}
	return analyzer, emb, nil
}

// newProgress draws one bar per stage on stderr.
func newProgress() correlato.ProgressFunc {
	bars := map[correlato.Stage]*progressbar.ProgressBar{}
	var current correlato.Stage
	var mu sync.Mutex
	return func(stage correlato.Stage, done, total int) {
		mu.Lock()
		defer mu.Unlock()

		bar, ok := bars[stage]
		if !ok {
			if prev, ok := bars[current]; ok {
				prev.Finish()
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(string(stage)),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
			bars[stage] = bar
			current = stage
		}
		bar.Set(done)
		if done >= total {
			bar.Finish()
		}
	}
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("similarity-threshold", 0.8, "exclusive cosine similarity threshold in [0, 1]")
	cmd.Flags().Float64("keyword-threshold", 0.2, "exclusive TF-IDF weight threshold in [0, 1]")
	cmd.Flags().Int("workers", 1, "parallel row partitions for the pairwise stages")
	cmd.Flags().String("keyword-strategy", "", "keyword overlap strategy (pairwise, postings)")
	cmd.Flags().String("provider", "", "embedding provider (embedeverything, openai, ollama)")
	cmd.Flags().String("model", "", "embedding model")
	cmd.Flags().Bool("no-progress", false, "disable progress bars")
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("similarity-threshold") {
		cfg.Analysis.SimilarityThreshold, _ = flags.GetFloat64("similarity-threshold")
	}
	if flags.Changed("keyword-threshold") {
		cfg.Analysis.KeywordThreshold, _ = flags.GetFloat64("keyword-threshold")
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("keyword-strategy") {
		cfg.Keywords.Strategy, _ = flags.GetString("keyword-strategy")
	}
	if flags.Changed("provider") {
		cfg.Embedding.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		cfg.Embedding.Model, _ = flags.GetString("model")
	}

	// Input/output flags
	if flags.Changed("repair") {
		cfg.Input.Repair, _ = flags.GetBool("repair")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}

	// Database flags
	if flags.Changed("db-uri") {
		cfg.Database.URI, _ = flags.GetString("db-uri")
	}
	if flags.Changed("db-username") {
		cfg.Database.Username, _ = flags.GetString("db-username")
	}
	if flags.Changed("db-password") {
		cfg.Database.Password, _ = flags.GetString("db-password")
	}
	if flags.Changed("db-database") {
		cfg.Database.Database, _ = flags.GetString("db-database")
	}
	if flags.Changed("label") {
		cfg.Database.Label, _ = flags.GetString("label")
	}
}

// closeQuietly closes c and logs a failure.
func closeQuietly(logger *slog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Failed to close", "component", name, "error", err)
	}
}
