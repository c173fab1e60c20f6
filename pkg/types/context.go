package types

// ContextKey is the type for context keys set by correlato.
type ContextKey string

const (
	// ContextKeyRunID carries the id of the current analysis run.
	ContextKeyRunID ContextKey = "run_id"
	// ContextKeyCommand carries the CLI command that started the run.
	ContextKeyCommand ContextKey = "command"
)
