package correlato

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"

	"github.com/soundprediction/correlato/pkg/types"
)

// FilterNodes keeps the records with a non-empty string content and a
// present, truthy id, preserving order. The position of a node in the
// returned slice is its index for the rest of the run. FilterNodes never
// fails; invalid records are dropped silently.
func FilterNodes(raw []types.RawNode) []types.Node {
	nodes := make([]types.Node, 0, len(raw))
	for _, r := range raw {
		content, ok := r.Content.(string)
		if !ok || content == "" {
			continue
		}
		id, ok := normalizeID(r.ID)
		if !ok {
			continue
		}
		nodes = append(nodes, types.Node{ID: id, Content: content})
	}
	return nodes
}

// normalizeID renders a truthy id as a string. Strings must be non-empty and
// numbers non-zero; booleans, nil and composite values are rejected.
func normalizeID(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return id, id != ""
	case json.Number:
		f, err := id.Float64()
		if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0)) {
			return "", false
		}
		// Literals beyond float64 range are infinite, hence truthy.
		if f == 0 || math.IsNaN(f) {
			return "", false
		}
		return id.String(), true
	case bool:
		return "", false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() == 0 {
			return "", false
		}
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() == 0 {
			return "", false
		}
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == 0 || math.IsNaN(f) {
			return "", false
		}
		return strconv.FormatFloat(f, 'g', -1, rv.Type().Bits()), true
	default:
		return "", false
	}
}
