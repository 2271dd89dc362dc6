package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocause/domain/core"
	"gocause/ports"
)

// FileStorage persists session snapshots as one JSON file per session.
// It is the default repository when no database is configured.
type FileStorage struct {
	BaseDir string
}

// NewFileStorage creates a file-backed session repository
func NewFileStorage(baseDir string) *FileStorage {
	return &FileStorage{BaseDir: baseDir}
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (fs *FileStorage) EnsureBaseDir() error {
	return os.MkdirAll(fs.BaseDir, 0755)
}

func (fs *FileStorage) sessionPath(id core.SessionID) string {
	return filepath.Join(fs.BaseDir, id.String()+".json")
}

// SaveSession writes a session record to disk
func (fs *FileStorage) SaveSession(_ context.Context, record *ports.SessionRecord) error {
	if err := fs.EnsureBaseDir(); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(fs.sessionPath(record.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// GetSession reads a session record from disk
func (fs *FileStorage) GetSession(_ context.Context, id core.SessionID) (*ports.SessionRecord, error) {
	data, err := os.ReadFile(fs.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("session", id.String())
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var record ports.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return &record, nil
}

// ListSessions returns stored sessions, newest first. A non-positive
// limit returns everything.
func (fs *FileStorage) ListSessions(_ context.Context, limit int) ([]*ports.SessionRecord, error) {
	entries, err := os.ReadDir(fs.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			files = append(files, filepath.Join(fs.BaseDir, entry.Name()))
		}
	}

	// Newest first by modification time
	sort.Slice(files, func(i, j int) bool {
		infoI, errI := os.Stat(files[i])
		infoJ, errJ := os.Stat(files[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})

	var records []*ports.SessionRecord
	for _, file := range files {
		if limit > 0 && len(records) >= limit {
			break
		}
		data, err := os.ReadFile(file)
		if err != nil {
			continue // Skip unreadable files
		}
		var record ports.SessionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue // Skip corrupted files
		}
		records = append(records, &record)
	}
	return records, nil
}

// DeleteSession removes a session file
func (fs *FileStorage) DeleteSession(_ context.Context, id core.SessionID) error {
	if err := os.Remove(fs.sessionPath(id)); err != nil {
		if os.IsNotExist(err) {
			return core.NewNotFoundError("session", id.String())
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
