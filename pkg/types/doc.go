// Package types defines the data types shared across correlato.
//
// This package contains the values that flow through an analysis run:
//   - RawNode: a decoded input record, fields exactly as found
//   - Node: a validated node with a string id and non-empty content
//   - SimilarityPair, KeywordPair: pairwise relationships keyed by declared ids
//   - CausalMatch, HierarchicalMatch: single-node signals keyed by position
//   - Result: the aggregate of the four relationship sets
//
// # JSON Serialization
//
// All relationship types carry json, yaml and parquet struct tags matching the
// output contract. Result never holds nil slices, so empty sets serialize as [].
package types
