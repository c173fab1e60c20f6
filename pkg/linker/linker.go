// Package linker writes an analysis result back to a graph as relationships.
//
// Similarity pairs become SIMILAR_TO relationships with a similarity
// property and keyword pairs become KEYWORD_OVERLAP relationships with a
// keywords property. A causal match becomes a relationship named after its
// phrase ("due to" becomes DUE_TO) and a hierarchical match becomes PART_OF.
// Both run from the node whose content equals the match text to the node at
// the match's index in the filtered node list; the two are the same node
// unless contents repeat.
package linker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/soundprediction/correlato/pkg/driver"
	"github.com/soundprediction/correlato/pkg/types"
)

// Relationship types written for the non-causal sets.
const (
	RelSimilarTo      = "SIMILAR_TO"
	RelKeywordOverlap = "KEYWORD_OVERLAP"
	RelPartOf         = "PART_OF"
)

// ErrAllWritesFailed is returned when every relationship write failed.
var ErrAllWritesFailed = errors.New("every relationship write failed")

// Stats summarizes a Link call.
type Stats struct {
	// Planned counts relationships sent to the writer.
	Planned int
	// Merged counts relationships the writer matched or created.
	Merged int
	// Failed counts relationships in batches the writer rejected.
	Failed int
	// Unresolved counts matches whose positional id or text did not resolve
	// to a node, plus planned relationships whose endpoints were missing.
	Unresolved int
	// ByType counts merged relationships per type.
	ByType map[string]int
}

// Batch is the set of relationships of one type.
type Batch struct {
	Type          string
	Relationships []driver.Relationship
}

// Linker turns results into relationship writes.
type Linker struct {
	writer driver.RelationshipWriter
	logger *slog.Logger
}

// New creates a Linker writing through writer.
func New(writer driver.RelationshipWriter, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{writer: writer, logger: logger}
}

// Plan resolves result against nodes, the filtered list the result was
// computed from, and groups relationships by type in first-seen order. It
// returns the number of matches that could not be resolved.
func (l *Linker) Plan(nodes []types.Node, result *types.Result) ([]Batch, int) {
	if result == nil {
		return nil, 0
	}

	byContent := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if _, ok := byContent[n.Content]; !ok {
			byContent[n.Content] = n.ID
		}
	}
	atIndex := func(positional string) (string, bool) {
		idx, err := strconv.Atoi(positional)
		if err != nil || idx < 0 || idx >= len(nodes) {
			return "", false
		}
		return nodes[idx].ID, true
	}

	var batches []Batch
	index := map[string]int{}
	add := func(relType string, rel driver.Relationship) {
		i, ok := index[relType]
		if !ok {
			i = len(batches)
			index[relType] = i
			batches = append(batches, Batch{Type: relType})
		}
		batches[i].Relationships = append(batches[i].Relationships, rel)
	}

	for _, p := range result.SimilarPairs {
		add(RelSimilarTo, driver.Relationship{
			StartID:    p.StartID,
			EndID:      p.EndID,
			Properties: map[string]any{"similarity": p.Similarity},
		})
	}
	for _, p := range result.KeywordPairs {
		add(RelKeywordOverlap, driver.Relationship{
			StartID:    p.StartID,
			EndID:      p.EndID,
			Properties: map[string]any{"keywords": p.Keywords},
		})
	}

	unresolved := 0
	for _, m := range result.CausalPairs {
		relType, err := driver.RelationshipType(m.Phrase)
		start, okStart := byContent[m.Context]
		end, okEnd := atIndex(m.ID)
		if err != nil || !okStart || !okEnd {
			l.logger.Warn("Skipping unresolved causal match", "id", m.ID, "phrase", m.Phrase)
			unresolved++
			continue
		}
		add(relType, driver.Relationship{
			StartID:    start,
			EndID:      end,
			Properties: map[string]any{"phrase": m.Phrase},
		})
	}
	for _, m := range result.HierarchicalPairs {
		start, okStart := byContent[m.Heading]
		end, okEnd := atIndex(m.ID)
		if !okStart || !okEnd {
			l.logger.Warn("Skipping unresolved hierarchical match", "id", m.ID)
			unresolved++
			continue
		}
		add(RelPartOf, driver.Relationship{
			StartID:    start,
			EndID:      end,
			Properties: map[string]any{"heading": m.Heading},
		})
	}

	return batches, unresolved
}

// Link plans and writes every relationship. A rejected batch is logged and
// counted; Link fails only when nothing could be written or ctx ends.
func (l *Linker) Link(ctx context.Context, nodes []types.Node, result *types.Result) (*Stats, error) {
	batches, unresolved := l.Plan(nodes, result)
	stats := &Stats{Unresolved: unresolved, ByType: map[string]int{}}

	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Planned += len(b.Relationships)

		merged, err := l.writer.MergeRelationships(ctx, b.Type, b.Relationships)
		if err != nil {
			l.logger.Error("Failed to merge relationships", "type", b.Type, "count", len(b.Relationships), "error", err)
			stats.Failed += len(b.Relationships) - merged
			stats.Merged += merged
			stats.ByType[b.Type] += merged
			continue
		}
		if missing := len(b.Relationships) - merged; missing > 0 {
			l.logger.Warn("Relationships with missing endpoints", "type", b.Type, "missing", missing)
			stats.Unresolved += missing
		}
		stats.Merged += merged
		stats.ByType[b.Type] += merged
		l.logger.Info("Merging relationships done", "type", b.Type, "merged", merged)
	}

	if stats.Planned > 0 && stats.Failed == stats.Planned {
		return stats, fmt.Errorf("%w: %d relationships", ErrAllWritesFailed, stats.Failed)
	}
	return stats, nil
}
