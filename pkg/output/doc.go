// Package output reads node batches and writes relationship results.
//
// Input is a JSON array of {"id": ..., "content": ...} records. Results are
// written as JSON (four-space indent), YAML, or a directory of four Parquet
// files, one per relationship set.
package output
