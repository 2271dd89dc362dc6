package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"gocause/domain/core"
	"gocause/ports"
)

// SessionRepositoryImpl implements ports.SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// SaveSession upserts a session snapshot
func (r *SessionRepositoryImpl) SaveSession(ctx context.Context, record *ports.SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`, record.ID, record.Name, record.State, record.CreatedAt, record.UpdatedAt)
	return err
}

// GetSession retrieves one session snapshot by ID
func (r *SessionRepositoryImpl) GetSession(ctx context.Context, id core.SessionID) (*ports.SessionRecord, error) {
	var record ports.SessionRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT id, name, state, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("session", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListSessions returns stored sessions, most recently updated first. A
// non-positive limit returns everything.
func (r *SessionRepositoryImpl) ListSessions(ctx context.Context, limit int) ([]*ports.SessionRecord, error) {
	query := `
		SELECT id, name, state, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var records []*ports.SessionRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteSession removes a session snapshot
func (r *SessionRepositoryImpl) DeleteSession(ctx context.Context, id core.SessionID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFoundError("session", id.String())
	}
	return nil
}
