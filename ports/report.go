package ports

import (
	"context"

	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
)

// SessionReport is the flat, renderer-neutral form of a session handed to
// report sinks (spreadsheet export, worktree file sets).
type SessionReport struct {
	SessionID   core.SessionID           `json:"session_id"`
	SessionName string                   `json:"session_name"`
	GeneratedAt core.Timestamp           `json:"generated_at"`
	Hypotheses  []*hypothesis.Hypothesis `json:"hypotheses"`
	Experiments []*hypothesis.Experiment `json:"experiments"`
	Evidence    []*hypothesis.Evidence   `json:"evidence"`
	Network     domain.NetworkSummary    `json:"causal_network"`
}

// ReportSink renders a session report to some destination and returns a
// human-readable location (a file path, a sheet name).
type ReportSink interface {
	Export(ctx context.Context, report *SessionReport) (string, error)
}

// WorktreeEmitter materializes the file set for a worktree schema. The
// engine only emits branch names and file contents; invoking version
// control is the collaborator's job.
type WorktreeEmitter interface {
	Emit(ctx context.Context, schema *hypothesis.WorktreeSchema) (WorktreeFiles, error)
}

// WorktreeFiles maps relative file paths to rendered contents.
type WorktreeFiles map[string][]byte
