package correlato

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"

	"github.com/go-viper/mapstructure/v2"

	"github.com/soundprediction/correlato/pkg/keywords"
	"github.com/soundprediction/correlato/pkg/patterns"
	"github.com/soundprediction/correlato/pkg/similarity"
)

// Stage names a long-running step reported to ProgressFunc.
type Stage string

const (
	StageSimilarity Stage = "similarity"
	StageKeywords   Stage = "keywords"
)

// ProgressFunc receives row progress for a stage. It may be called from
// several goroutines at once.
type ProgressFunc func(stage Stage, done, total int)

// Options configures an Analyzer. Use DefaultOptions as the starting point.
type Options struct {
	// SimilarityThreshold is exclusive, in [0, 1].
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	// KeywordThreshold is exclusive, in [0, 1].
	KeywordThreshold float64 `mapstructure:"keyword_threshold"`
	// Workers bounds parallel row partitions in the pairwise engines.
	Workers int `mapstructure:"workers"`

	// CausalPhrases replaces the default causal marker list when non-empty.
	CausalPhrases []string `mapstructure:"causal_phrases"`
	// HeadingPatterns replaces the default heading patterns when non-empty.
	HeadingPatterns []string `mapstructure:"heading_patterns"`

	// KeywordStrategy is "pairwise" or "postings".
	KeywordStrategy string `mapstructure:"keyword_strategy"`
	// ExtraStopwords are excluded from keywords on top of the English list.
	ExtraStopwords []string `mapstructure:"extra_stopwords"`

	Logger   *slog.Logger `mapstructure:"-"`
	Progress ProgressFunc `mapstructure:"-"`
}

// DefaultOptions returns the default thresholds, patterns and strategy.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: similarity.DefaultThreshold,
		KeywordThreshold:    keywords.DefaultThreshold,
		Workers:             1,
		CausalPhrases:       append([]string(nil), patterns.DefaultCausalPhrases...),
		HeadingPatterns:     append([]string(nil), patterns.DefaultHeadingPatterns...),
		KeywordStrategy:     string(keywords.StrategyPairwise),
	}
}

// Validate checks thresholds, worker count, strategy and heading patterns.
func (o Options) Validate() error {
	if err := validateThreshold("similarity_threshold", o.SimilarityThreshold); err != nil {
		return err
	}
	if err := validateThreshold("keyword_threshold", o.KeywordThreshold); err != nil {
		return err
	}
	if o.Workers < 0 {
		return &ValidationError{Field: "workers", Message: "must not be negative"}
	}
	switch keywords.Strategy(o.KeywordStrategy) {
	case "", keywords.StrategyPairwise, keywords.StrategyPostings:
	default:
		return &ValidationError{Field: "keyword_strategy", Message: fmt.Sprintf("unknown strategy %q", o.KeywordStrategy)}
	}
	for _, p := range o.HeadingPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return &ValidationError{Field: "heading_patterns", Message: err.Error()}
		}
	}
	return nil
}

func validateThreshold(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%v is outside [0, 1]", v)}
	}
	return nil
}

// OptionsFromMap decodes options from a map keyed by the mapstructure names
// above, starting from DefaultOptions. Unknown keys are rejected. Numeric
// strings are accepted for numeric options. A list replaces the default
// list entirely.
func OptionsFromMap(m map[string]any) (Options, error) {
	opts := DefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return Options{}, err
	}
	if err := decoder.Decode(m); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
