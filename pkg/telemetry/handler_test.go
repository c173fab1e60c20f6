package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/soundprediction/correlato/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, batch int) (*ParquetHandler, *bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	dir := t.TempDir()
	h, err := NewParquetHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), dir, batch)
	require.NoError(t, err)
	return h, &buf, dir
}

func TestParquetHandler(t *testing.T) {
	ctx := context.WithValue(context.Background(), types.ContextKeyRunID, "run-1")
	ctx = context.WithValue(ctx, types.ContextKeyCommand, "analyze")

	t.Run("only errors are persisted", func(t *testing.T) {
		h, buf, dir := newTestHandler(t, 10)
		logger := slog.New(h).With("component", "embedder")
		logger.InfoContext(ctx, "started")
		logger.ErrorContext(ctx, "embedding failed", "error", errors.New("timeout"))
		require.NoError(t, h.Close())

		assert.Contains(t, buf.String(), "started")
		assert.Contains(t, buf.String(), "embedding failed")

		records, err := ReadRecords(dir)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "embedding failed", records[0].Message)
		assert.Equal(t, "ERROR", records[0].Level)
		assert.Equal(t, "run-1", records[0].RunID)
		assert.Equal(t, "analyze", records[0].Command)
		assert.Contains(t, records[0].Attributes, `"component":"embedder"`)
		assert.Contains(t, records[0].Attributes, `"error":"timeout"`)
	})

	t.Run("batch size triggers a flush", func(t *testing.T) {
		h, _, dir := newTestHandler(t, 2)
		logger := slog.New(h)
		logger.Error("one")
		records, err := ReadRecords(dir)
		require.NoError(t, err)
		assert.Empty(t, records)

		logger.Error("two")
		records, err = ReadRecords(dir)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("clones share the buffer", func(t *testing.T) {
		h, _, dir := newTestHandler(t, 10)
		slog.New(h).WithGroup("g").Error("from clone")
		slog.New(h).Error("from root")
		require.NoError(t, h.Flush())

		records, err := ReadRecords(dir)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("empty flush writes nothing", func(t *testing.T) {
		h, _, dir := newTestHandler(t, 0)
		assert.Equal(t, DefaultBatchSize, h.sink.batchSize)
		require.NoError(t, h.Close())
		records, err := ReadRecords(dir)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
