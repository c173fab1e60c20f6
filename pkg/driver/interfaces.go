package driver

import (
	"context"

	"github.com/soundprediction/correlato/pkg/types"
)

// Consumers should depend on the smallest interface that meets their needs.

// NodeSource loads analysis input from a graph.
type NodeSource interface {
	// LoadNodes returns the id and content property of every node carrying
	// label, or of every node when label is empty. Values are returned as
	// stored; callers filter them.
	LoadNodes(ctx context.Context, label string) ([]types.RawNode, error)
}

// RelationshipWriter merges relationships between existing nodes.
type RelationshipWriter interface {
	// MergeRelationships creates relType relationships that do not exist yet
	// and sets their properties. It returns how many relationships were
	// matched or created; pairs whose endpoints are missing are not counted.
	MergeRelationships(ctx context.Context, relType string, rels []Relationship) (int, error)
}

// GraphDriver is the full driver surface used by the CLI.
type GraphDriver interface {
	NodeSource
	RelationshipWriter

	// VerifyConnectivity checks that the database is reachable.
	VerifyConnectivity(ctx context.Context) error

	// Close releases all resources held by the driver.
	Close(ctx context.Context) error
}

// Relationship is a directed relationship between two nodes named by their
// declared ids.
type Relationship struct {
	StartID    string
	EndID      string
	Properties map[string]any
}

var _ GraphDriver = (*Neo4jDriver)(nil)
