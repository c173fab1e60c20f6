package patterns

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/soundprediction/correlato/pkg/types"
)

// HeadingSpace is a character class for Unicode whitespace. RE2's \s only
// matches ASCII space, tab, newline, form feed and carriage return.
const HeadingSpace = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// DefaultHeadingPatterns matches numbered ("1. Introduction") and lettered
// ("A. Background") headings. Digits and the separating space may be any
// Unicode decimal digit and whitespace.
var DefaultHeadingPatterns = []string{
	`^\p{Nd}+\.` + HeadingSpace + `+.+`,
	`^[A-Za-z]+\.` + HeadingSpace + `+.+`,
}

// HierarchicalDetector reports which heading patterns match the start of each
// content.
type HierarchicalDetector struct {
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// NewHierarchicalDetector compiles patterns, or DefaultHeadingPatterns when
// patterns is empty.
func NewHierarchicalDetector(patterns []string, logger *slog.Logger) (*HierarchicalDetector, error) {
	if len(patterns) == 0 {
		patterns = DefaultHeadingPatterns
	}
	if logger == nil {
		logger = slog.Default()
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid heading pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &HierarchicalDetector{patterns: compiled, logger: logger}, nil
}

// Detect emits one HierarchicalMatch per (content, pattern) where the pattern
// matches at the start of the content. Heading is the whole content.
func (d *HierarchicalDetector) Detect(contents []string) []types.HierarchicalMatch {
	matches := make([]types.HierarchicalMatch, 0)
	for idx, content := range contents {
		for _, re := range d.patterns {
			if !matchAtStart(re, content) {
				continue
			}
			matches = append(matches, types.HierarchicalMatch{
				ID:      strconv.Itoa(idx),
				Heading: content,
			})
			d.logger.Debug("Found hierarchical heading", "index", idx, "pattern", re.String())
		}
	}
	return matches
}

// matchAtStart reports whether re matches a prefix of s. The leftmost match
// starts at 0 whenever any match at 0 exists.
func matchAtStart(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}
