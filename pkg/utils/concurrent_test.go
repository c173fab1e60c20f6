package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairCount(r Range, n int) int {
	c := 0
	for i := r.Start; i < r.End; i++ {
		c += n - 1 - i
	}
	return c
}

func TestPartitionPairs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		n     int
		parts int
		want  []Range
	}{
		{name: "empty", n: 0, parts: 4, want: nil},
		{name: "single row", n: 1, parts: 4, want: nil},
		{name: "two rows one part", n: 2, parts: 1, want: []Range{{0, 1}}},
		{name: "balanced halves", n: 4, parts: 2, want: []Range{{0, 1}, {1, 3}}},
		{name: "non-positive parts", n: 3, parts: 0, want: []Range{{0, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartitionPairs(tt.n, tt.parts))
		})
	}
}

func TestPartitionPairsCoversEveryPair(t *testing.T) {
	t.Parallel()
	for _, n := range []int{2, 3, 10, 57} {
		for _, parts := range []int{1, 2, 3, 8, 100} {
			ranges := PartitionPairs(n, parts)
			require.NotEmpty(t, ranges)
			assert.LessOrEqual(t, len(ranges), parts)
			assert.Equal(t, 0, ranges[0].Start)
			assert.Equal(t, n-1, ranges[len(ranges)-1].End)

			total := 0
			for k, r := range ranges {
				if k > 0 {
					assert.Equal(t, ranges[k-1].End, r.Start, "ranges must be contiguous")
				}
				assert.Less(t, r.Start, r.End)
				total += pairCount(r, n)
			}
			assert.Equal(t, n*(n-1)/2, total)
		}
	}
}

func TestRunPartitionsPreservesOrder(t *testing.T) {
	t.Parallel()
	n := 20
	ranges := PartitionPairs(n, 6)

	parts, err := RunPartitions(context.Background(), 4, ranges, func(ctx context.Context, r Range) ([][2]int, error) {
		var out [][2]int
		for i := r.Start; i < r.End; i++ {
			for j := i + 1; j < n; j++ {
				out = append(out, [2]int{i, j})
			}
		}
		return out, nil
	})
	require.NoError(t, err)

	var want [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			want = append(want, [2]int{i, j})
		}
	}
	assert.Equal(t, want, Flatten(parts))
}

func TestRunPartitionsErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	t.Run("returns first error", func(t *testing.T) {
		_, err := RunPartitions(context.Background(), 2, PartitionPairs(10, 3), func(ctx context.Context, r Range) ([]int, error) {
			if r.Start == 0 {
				return nil, boom
			}
			return []int{r.Start}, nil
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("recovers panics", func(t *testing.T) {
		_, err := RunPartitions(context.Background(), 1, PartitionPairs(5, 1), func(ctx context.Context, r Range) ([]int, error) {
			panic("worker exploded")
		})
		var panicErr *PanicError
		assert.ErrorAs(t, err, &panicErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := RunPartitions(ctx, 1, PartitionPairs(5, 2), func(ctx context.Context, r Range) ([]int, error) {
			return []int{1}, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no ranges", func(t *testing.T) {
		parts, err := RunPartitions(context.Background(), 2, nil, func(ctx context.Context, r Range) ([]int, error) {
			return nil, boom
		})
		require.NoError(t, err)
		assert.Empty(t, Flatten(parts))
	})
}
