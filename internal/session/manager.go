// Package session provides the concurrency boundary around reasoning
// sessions. The engine itself is single-threaded by contract; every
// session is guarded by its own mutex and no state is shared between
// sessions.
package session

import (
	"context"
	"encoding/json"
	"sync"

	applog "gocause/internal"
	"gocause/internal/errors"
	"gocause/internal/orchestrator"
	"gocause/ports"

	"golang.org/x/sync/errgroup"

	"gocause/domain/core"
)

// Session wraps one orchestrator behind a mutex.
type Session struct {
	ID        core.SessionID
	Name      string
	CreatedAt core.Timestamp
	UpdatedAt core.Timestamp

	mu     sync.Mutex
	engine *orchestrator.Orchestrator
}

// Do runs fn with exclusive access to the session's engine. All engine
// calls go through here; the engine has no internal locking.
func (s *Session) Do(fn func(*orchestrator.Orchestrator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.engine)
	if err == nil {
		s.UpdatedAt = core.Now()
	}
	return err
}

// Manager owns all live sessions and their persistence.
type Manager struct {
	mu         sync.RWMutex
	config     orchestrator.Config
	comparator ports.Comparator
	sessions   map[core.SessionID]*Session
	order      []core.SessionID
	repo       ports.SessionRepository
	log        *applog.Logger
}

// NewManager creates a session manager. The repository may be nil for a
// purely in-memory deployment.
func NewManager(config orchestrator.Config, comparator ports.Comparator, repo ports.SessionRepository) *Manager {
	return &Manager{
		config:     config,
		comparator: comparator,
		sessions:   make(map[core.SessionID]*Session),
		repo:       repo,
		log:        applog.DefaultLogger,
	}
}

// Create starts a fresh reasoning session.
func (m *Manager) Create(name string) *Session {
	now := core.Now()
	s := &Session{
		ID:        core.NewSessionID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		engine:    orchestrator.New(m.config, m.comparator),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	m.mu.Unlock()

	m.log.Info("[Session] created %s (%s)", s.ID, name)
	return s
}

// Get returns a live session by ID.
func (m *Manager) Get(id core.SessionID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, core.NewNotFoundError("session", id.String())
	}
	return s, nil
}

// List returns live sessions in creation order.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sessions[id])
	}
	return out
}

// Delete removes a session from memory and, when a repository is
// configured, from storage.
func (m *Manager) Delete(ctx context.Context, id core.SessionID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		for i, sid := range m.order {
			if sid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return core.NewNotFoundError("session", id.String())
	}
	if m.repo != nil {
		if err := m.repo.DeleteSession(ctx, id); err != nil && !core.IsNotFoundError(err) {
			return errors.Wrapf(err, "deleting stored session %s", id)
		}
	}
	m.log.Info("[Session] deleted %s", s.ID)
	return nil
}

// Persist snapshots one session to the repository.
func (m *Manager) Persist(ctx context.Context, id core.SessionID) error {
	if m.repo == nil {
		return nil
	}
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	var state json.RawMessage
	err = s.Do(func(o *orchestrator.Orchestrator) error {
		data, marshalErr := json.Marshal(o.Snapshot())
		if marshalErr != nil {
			return marshalErr
		}
		state = data
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "snapshotting session %s", id)
	}

	record := &ports.SessionRecord{
		ID:        s.ID,
		Name:      s.Name,
		State:     state,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if err := m.repo.SaveSession(ctx, record); err != nil {
		return errors.Wrapf(err, "persisting session %s", id)
	}
	return nil
}

// PersistAll snapshots every live session concurrently. Each session is
// still serialized behind its own mutex.
func (m *Manager) PersistAll(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range m.List() {
		g.Go(func() error {
			return m.Persist(ctx, s.ID)
		})
	}
	return g.Wait()
}

// Load restores a session from the repository into memory, replacing any
// live session with the same ID.
func (m *Manager) Load(ctx context.Context, id core.SessionID) (*Session, error) {
	if m.repo == nil {
		return nil, core.NewNotFoundError("session", id.String())
	}
	record, err := m.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.adopt(record)
}

// LoadAll restores every stored session into memory.
func (m *Manager) LoadAll(ctx context.Context) (int, error) {
	if m.repo == nil {
		return 0, nil
	}
	records, err := m.repo.ListSessions(ctx, 0)
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, record := range records {
		if _, err := m.adopt(record); err != nil {
			m.log.Warn("[Session] skipping corrupt snapshot %s: %v", record.ID, err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

func (m *Manager) adopt(record *ports.SessionRecord) (*Session, error) {
	var snap orchestrator.Snapshot
	if err := json.Unmarshal(record.State, &snap); err != nil {
		return nil, errors.Wrapf(err, "decoding session %s", record.ID)
	}

	s := &Session{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		engine:    orchestrator.Restore(&snap, m.comparator),
	}

	m.mu.Lock()
	if _, exists := m.sessions[s.ID]; !exists {
		m.order = append(m.order, s.ID)
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Report builds the renderer-neutral report for a session.
func (m *Manager) Report(id core.SessionID) (*ports.SessionReport, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	var report *ports.SessionReport
	err = s.Do(func(o *orchestrator.Orchestrator) error {
		report = o.Report()
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.SessionID = s.ID
	report.SessionName = s.Name
	return report, nil
}
