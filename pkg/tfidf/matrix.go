package tfidf

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMalformedMatrix is returned by Canonical for rows that do not fit the
// vocabulary.
var ErrMalformedMatrix = errors.New("malformed term matrix")

// Row is one document's sparse weights. Indices are ascending column indices
// into the vocabulary; Weights[k] belongs to Indices[k] and is non-zero.
type Row struct {
	Indices []int
	Weights []float64
}

// Weight returns the weight of column idx, or 0 if the row has none.
func (r Row) Weight(idx int) float64 {
	k := sort.SearchInts(r.Indices, idx)
	if k < len(r.Indices) && r.Indices[k] == idx {
		return r.Weights[k]
	}
	return 0
}

// Len returns the number of active (non-zero) columns.
func (r Row) Len() int {
	return len(r.Indices)
}

// Matrix holds the weights of every document plus the shared vocabulary.
type Matrix struct {
	Vocabulary []string
	Rows       []Row
}

// Term returns the vocabulary term for column idx.
func (m *Matrix) Term(idx int) string {
	return m.Vocabulary[idx]
}

// Weighter turns a corpus into a Matrix with one row per text, in order.
type Weighter interface {
	FitTransform(texts []string) (*Matrix, error)
}

// Canonical checks that every row has one weight per index and that indices
// are unique columns of the vocabulary. It returns a matrix whose rows have
// ascending indices, which is m itself when no row needed sorting.
func (m *Matrix) Canonical() (*Matrix, error) {
	vocab := len(m.Vocabulary)
	var out *Matrix
	for r, row := range m.Rows {
		if len(row.Indices) != len(row.Weights) {
			return nil, fmt.Errorf("%w: row %d has %d indices and %d weights", ErrMalformedMatrix, r, len(row.Indices), len(row.Weights))
		}
		sorted := true
		for k, idx := range row.Indices {
			if idx < 0 || idx >= vocab {
				return nil, fmt.Errorf("%w: row %d references column %d of %d", ErrMalformedMatrix, r, idx, vocab)
			}
			if k > 0 && idx <= row.Indices[k-1] {
				sorted = false
			}
		}
		if sorted {
			continue
		}

		fixed, err := sortRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedMatrix, r, err)
		}
		if out == nil {
			out = &Matrix{Vocabulary: m.Vocabulary, Rows: append([]Row(nil), m.Rows...)}
		}
		out.Rows[r] = fixed
	}
	if out == nil {
		return m, nil
	}
	return out, nil
}

// sortRow returns a copy of row ordered by index. Repeated indices are an error.
func sortRow(row Row) (Row, error) {
	order := make([]int, len(row.Indices))
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool { return row.Indices[order[a]] < row.Indices[order[b]] })

	fixed := Row{Indices: make([]int, len(order)), Weights: make([]float64, len(order))}
	for k, o := range order {
		fixed.Indices[k] = row.Indices[o]
		fixed.Weights[k] = row.Weights[o]
		if k > 0 && fixed.Indices[k] == fixed.Indices[k-1] {
			return Row{}, fmt.Errorf("column %d appears twice", fixed.Indices[k])
		}
	}
	return fixed, nil
}
