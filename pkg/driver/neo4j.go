package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/soundprediction/correlato/pkg/types"
)

// defaultMergeBatchSize bounds the relationships sent per UNWIND query.
const defaultMergeBatchSize = 500

// Neo4jDriver implements GraphDriver for Neo4j databases.
type Neo4jDriver struct {
	client    neo4j.DriverWithContext
	database  string
	label     string
	batchSize int
}

// NewNeo4jDriver creates a new Neo4j driver instance. The connection is
// opened lazily; call VerifyConnectivity to check it.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:    driver,
		database:  database,
		batchSize: defaultMergeBatchSize,
	}, nil
}

// WithLabel restricts relationship endpoints to nodes carrying label.
func (n *Neo4jDriver) WithLabel(label string) (*Neo4jDriver, error) {
	if label != "" {
		if err := ValidateIdentifier(label); err != nil {
			return nil, err
		}
	}
	clone := *n
	clone.label = label
	return &clone, nil
}

// VerifyConnectivity checks that the database is reachable.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	if err := n.client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j unreachable: %w", err)
	}
	return nil
}

// LoadNodes returns the id and content properties of every node with label.
func (n *Neo4jDriver) LoadNodes(ctx context.Context, label string) ([]types.RawNode, error) {
	if label != "" {
		if err := ValidateIdentifier(label); err != nil {
			return nil, err
		}
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH %s
			RETURN n.id AS id, n.content AS content
			ORDER BY elementId(n)
		`, matchClause("n", label))
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}

	records, err := MustRecordSlice(result, "nodes")
	if err != nil {
		return nil, err
	}

	nodes := make([]types.RawNode, 0, len(records))
	for _, record := range records {
		nodes = append(nodes, types.RawNode{
			ID:      RecordValue(record, "id"),
			Content: RecordValue(record, "content"),
		})
	}
	return nodes, nil
}

// MergeRelationships merges relType relationships in batches. Endpoints are
// matched by their id property compared as a string.
func (n *Neo4jDriver) MergeRelationships(ctx context.Context, relType string, rels []Relationship) (int, error) {
	if err := ValidateIdentifier(relType); err != nil {
		return 0, err
	}
	if len(rels) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UNWIND $rels AS rel
		MATCH %s WHERE toString(a.id) = rel.start_id
		MATCH %s WHERE toString(b.id) = rel.end_id
		MERGE (a)-[r:%s]->(b)
		SET r += rel.properties
		RETURN count(r) AS merged
	`, matchClause("a", n.label), matchClause("b", n.label), relType)

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	merged := 0
	for start := 0; start < len(rels); start += n.batchSize {
		end := min(start+n.batchSize, len(rels))
		params := relationshipParams(rels[start:end])

		result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, query, map[string]any{"rels": params})
			if err != nil {
				return nil, err
			}
			record, err := res.Single(ctx)
			if err != nil {
				return nil, err
			}
			return MustInt64(RecordValue(record, "merged"), "merged")
		})
		if err != nil {
			return merged, fmt.Errorf("failed to merge %s relationships: %w", relType, err)
		}
		merged += int(result.(int64))
	}
	return merged, nil
}

// Close closes the driver and releases resources.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

func relationshipParams(rels []Relationship) []any {
	out := make([]any, len(rels))
	for i, r := range rels {
		props := r.Properties
		if props == nil {
			props = map[string]any{}
		}
		out[i] = map[string]any{
			"start_id":   r.StartID,
			"end_id":     r.EndID,
			"properties": props,
		}
	}
	return out
}
