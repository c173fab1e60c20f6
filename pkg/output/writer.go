package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/soundprediction/correlato/pkg/types"
)

// Format names a result encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// Parquet file names written inside the output directory.
const (
	SimilarPairsFile      = "similar_pairs.parquet"
	KeywordPairsFile      = "keyword_pairs.parquet"
	CausalPairsFile       = "causal_pairs.parquet"
	HierarchicalPairsFile = "hierarchical_pairs.parquet"
)

// ParseFormat validates a format name. An empty name infers the format from
// path: .yaml and .yml select YAML, .parquet or a trailing separator selects
// Parquet, anything else JSON.
func ParseFormat(name, path string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatParquet:
		return FormatParquet, nil
	case "":
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrOutputUnwritable, name)
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return FormatParquet, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return FormatJSON, nil
	}
}

// Write encodes result to path in the named format (see ParseFormat).
// Parquet output treats path as a directory and creates it.
func Write(path, format string, result *types.Result) error {
	f, err := ParseFormat(format, path)
	if err != nil {
		return err
	}
	if result == nil {
		result = types.EmptyResult()
	}

	switch f {
	case FormatYAML:
		err = writeYAML(path, result)
	case FormatParquet:
		err = writeParquet(path, result)
	default:
		err = writeJSON(path, result)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputUnwritable, err)
	}
	return nil
}

// EncodeJSON renders result with four-space indentation.
func EncodeJSON(result *types.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, result *types.Result) error {
	data, err := EncodeJSON(result)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeYAML(path string, result *types.Result) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeParquet(dir string, result *types.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := parquet.WriteFile(filepath.Join(dir, SimilarPairsFile), result.SimilarPairs); err != nil {
		return fmt.Errorf("write %s: %w", SimilarPairsFile, err)
	}
	if err := parquet.WriteFile(filepath.Join(dir, KeywordPairsFile), result.KeywordPairs); err != nil {
		return fmt.Errorf("write %s: %w", KeywordPairsFile, err)
	}
	if err := parquet.WriteFile(filepath.Join(dir, CausalPairsFile), result.CausalPairs); err != nil {
		return fmt.Errorf("write %s: %w", CausalPairsFile, err)
	}
	if err := parquet.WriteFile(filepath.Join(dir, HierarchicalPairsFile), result.HierarchicalPairs); err != nil {
		return fmt.Errorf("write %s: %w", HierarchicalPairsFile, err)
	}
	return nil
}

// ReadParquet loads a result previously written with FormatParquet.
func ReadParquet(dir string) (*types.Result, error) {
	similar, err := parquet.ReadFile[types.SimilarityPair](filepath.Join(dir, SimilarPairsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	keyword, err := parquet.ReadFile[types.KeywordPair](filepath.Join(dir, KeywordPairsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	causal, err := parquet.ReadFile[types.CausalMatch](filepath.Join(dir, CausalPairsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	hierarchical, err := parquet.ReadFile[types.HierarchicalMatch](filepath.Join(dir, HierarchicalPairsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	return types.NewResult(similar, keyword, causal, hierarchical), nil
}
