package patterns

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/soundprediction/correlato/pkg/types"
)

// DefaultCausalPhrases is the ordered list of causal markers used when none
// is configured.
var DefaultCausalPhrases = []string{
	"because", "due to", "as a result", "therefore", "thus", "consequently",
	"hence", "so that", "caused by", "resulted in", "leading to", "since",
}

// CausalDetector reports which causal marker phrases occur in each content.
type CausalDetector struct {
	phrases []string
	logger  *slog.Logger
}

// NewCausalDetector creates a detector for phrases, or DefaultCausalPhrases
// when phrases is empty. Phrases are matched case-insensitively; blank
// phrases are ignored.
func NewCausalDetector(phrases []string, logger *slog.Logger) *CausalDetector {
	if len(phrases) == 0 {
		phrases = DefaultCausalPhrases
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}

	return &CausalDetector{phrases: normalized, logger: logger}
}

// Phrases returns the normalized phrase list in match order.
func (d *CausalDetector) Phrases() []string {
	return append([]string(nil), d.phrases...)
}

// Detect emits one CausalMatch per (content, phrase) where the phrase occurs
// anywhere in the content. Repeated occurrences of a phrase count once.
func (d *CausalDetector) Detect(contents []string) []types.CausalMatch {
	matches := make([]types.CausalMatch, 0)
	for idx, content := range contents {
		lower := strings.ToLower(content)
		for _, phrase := range d.phrases {
			if !strings.Contains(lower, phrase) {
				continue
			}
			matches = append(matches, types.CausalMatch{
				ID:      strconv.Itoa(idx),
				Phrase:  phrase,
				Context: content,
			})
			d.logger.Debug("Found causal phrase", "phrase", phrase, "index", idx)
		}
	}
	return matches
}
