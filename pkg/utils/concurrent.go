package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open range of row indices [Start, End).
type Range struct {
	Start int
	End   int
}

// PartitionPairs splits rows 0..n-1 of an upper-triangle pair enumeration
// (row i pairs with every j > i) into at most parts contiguous ranges with
// roughly equal pair counts. Ranges cover every row that has at least one
// pair, in ascending order.
func PartitionPairs(n, parts int) []Range {
	if n < 2 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}

	total := n * (n - 1) / 2
	target := (total + parts - 1) / parts

	ranges := make([]Range, 0, parts)
	start, acc := 0, 0
	for i := 0; i < n-1; i++ {
		acc += n - 1 - i
		if acc >= target && len(ranges) < parts-1 {
			ranges = append(ranges, Range{Start: start, End: i + 1})
			start, acc = i+1, 0
		}
	}
	if start < n-1 {
		ranges = append(ranges, Range{Start: start, End: n - 1})
	}
	return ranges
}

// RunPartitions calls fn once per range with at most workers running at a
// time. Results are returned in range order. The first error cancels the
// remaining ranges and is returned; panics surface as *PanicError.
func RunPartitions[R any](ctx context.Context, workers int, ranges []Range, fn func(ctx context.Context, r Range) ([]R, error)) ([][]R, error) {
	out := make([][]R, len(ranges))
	if len(ranges) == 0 {
		return out, nil
	}
	if workers < 1 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, r := range ranges {
		g.Go(func() (err error) {
			defer RecoverAsError(&err)
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := fn(gCtx, r)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Flatten concatenates partition results in order.
func Flatten[R any](parts [][]R) []R {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]R, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ProgressFunc receives the number of completed rows out of total. It is
// called from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int)
