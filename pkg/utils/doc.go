// Package utils provides numeric and concurrency helpers shared by the
// pairwise engines.
//
// # Vectors
//
// CosineWithNorms and Magnitude operate on float32 embeddings and accumulate
// in float64.
//
// # Partitions
//
// PartitionPairs splits the upper triangle of an n×n comparison into
// contiguous row ranges of roughly equal pair count. RunPartitions executes a
// function per range with bounded parallelism and returns the per-range
// results in range order, so concatenating them reproduces the sequential
// (i, j) enumeration.
package utils
