// Package driver provides the Neo4j graph database driver used to load nodes
// for analysis and to write relationships back.
//
// # Usage
//
//	d, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer d.Close(ctx)
//
//	raw, err := d.LoadNodes(ctx, "Note")
//
//	merged, err := d.MergeRelationships(ctx, "SIMILAR_TO", []driver.Relationship{
//		{StartID: "a", EndID: "b", Properties: map[string]any{"similarity": 0.91}},
//	})
//
// Nodes are matched on their id property compared as a string, so nodes
// whose id is stored as an integer are found by its decimal form.
//
// # Thread Safety
//
// Neo4jDriver is safe for concurrent use from multiple goroutines. Sessions
// are opened per call and the underlying connection pool is shared.
//
// # Type Helpers
//
// type_helpers.go converts driver results to Go types without panicking on
// type assertion failures.
package driver
