package ports

import (
	"context"
	"encoding/json"

	"gocause/domain/core"
)

// SessionRecord is a persisted reasoning session: an opaque JSON snapshot
// of the full engine state plus bookkeeping columns.
type SessionRecord struct {
	ID        core.SessionID  `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	State     json.RawMessage `db:"state" json:"state"`
	CreatedAt core.Timestamp  `db:"created_at" json:"created_at"`
	UpdatedAt core.Timestamp  `db:"updated_at" json:"updated_at"`
}

// SessionRepository defines the interface for session persistence.
// The engine serializes to plain JSON; repositories never interpret it.
type SessionRepository interface {
	// SaveSession inserts or replaces the snapshot for a session
	SaveSession(ctx context.Context, record *SessionRecord) error

	// GetSession retrieves a session snapshot by ID
	GetSession(ctx context.Context, id core.SessionID) (*SessionRecord, error)

	// ListSessions returns stored sessions, newest first, optionally limited
	ListSessions(ctx context.Context, limit int) ([]*SessionRecord, error)

	// DeleteSession removes a session snapshot
	DeleteSession(ctx context.Context, id core.SessionID) error
}
