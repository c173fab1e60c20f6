package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kaptinlin/jsonrepair"

	"github.com/soundprediction/correlato/pkg/types"
)

var (
	// ErrInputUnreadable indicates the input could not be read or decoded.
	ErrInputUnreadable = errors.New("input cannot be read")

	// ErrOutputUnwritable indicates the result could not be written.
	ErrOutputUnwritable = errors.New("output cannot be written")
)

// ReadNodes reads a JSON node array from path. When repair is set, a
// document that fails to decode is passed through jsonrepair once before
// giving up.
func ReadNodes(path string, repair bool) ([]types.RawNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	return DecodeNodes(data, repair)
}

// ReadNodesFrom is ReadNodes over a reader.
func ReadNodesFrom(r io.Reader, repair bool) ([]types.RawNode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}
	return DecodeNodes(data, repair)
}

// DecodeNodes decodes a JSON node array. Numbers are kept as json.Number so
// ids keep their literal text. Elements that are not objects are dropped.
func DecodeNodes(data []byte, repair bool) ([]types.RawNode, error) {
	items, err := decodeArray(data)
	if err != nil && repair {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return nil, fmt.Errorf("%w: %w (repair failed: %v)", ErrInputUnreadable, err, rerr)
		}
		items, err = decodeArray([]byte(fixed))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}

	nodes := make([]types.RawNode, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		nodes = append(nodes, types.RawNode{ID: obj["id"], Content: obj["content"]})
	}
	return nodes, nil
}

func decodeArray(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode node array: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode node array: trailing data after array")
	}
	return items, nil
}
