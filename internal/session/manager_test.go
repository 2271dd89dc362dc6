package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gocause/domain/core"
	"gocause/internal/orchestrator"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	storage := NewFileStorage(t.TempDir())
	return NewManager(orchestrator.DefaultConfig(), nil, storage)
}

func TestManager_CreateGetList(t *testing.T) {
	m := newTestManager(t)

	s1 := m.Create("checkout latency")
	s2 := m.Create("nightly OOMs")

	got, err := m.Get(s1.ID)
	if err != nil || got.Name != "checkout latency" {
		t.Fatalf("Get failed: %v", err)
	}

	list := m.List()
	if len(list) != 2 || list[0].ID != s1.ID || list[1].ID != s2.ID {
		t.Errorf("Expected creation-ordered list, got %d entries", len(list))
	}
}

func TestManager_GetUnknown(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Get("ses-missing"); !core.IsNotFoundError(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	m := newTestManager(t)
	s := m.Create("to delete")

	if err := m.Delete(context.Background(), s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(s.ID); !core.IsNotFoundError(err) {
		t.Error("Deleted session still retrievable")
	}
	if err := m.Delete(context.Background(), s.ID); !core.IsNotFoundError(err) {
		t.Errorf("Double delete must report not found, got %v", err)
	}
}

func TestManager_PersistLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	m := NewManager(orchestrator.DefaultConfig(), nil, storage)

	s := m.Create("persisted session")
	err := s.Do(func(o *orchestrator.Orchestrator) error {
		o.SetupCausalNetwork(
			[]orchestrator.VariableSpec{{Name: "Deploy"}, {Name: "Errors"}},
			[]orchestrator.LinkSpec{{Cause: "Deploy", Effect: "Errors", Strength: 0.8}},
		)
		_, err := o.ReasonFromObservation("errors spiked", map[string]string{"Errors": "true"})
		return err
	})
	if err != nil {
		t.Fatalf("Session work failed: %v", err)
	}

	if err := m.Persist(context.Background(), s.ID); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	// A fresh manager restores the session from disk.
	m2 := NewManager(orchestrator.DefaultConfig(), nil, NewFileStorage(dir))
	restored, err := m2.Load(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if restored.Name != "persisted session" {
		t.Errorf("Name lost in round trip: %q", restored.Name)
	}

	err = restored.Do(func(o *orchestrator.Orchestrator) error {
		status := o.GetStatus()
		if status.CausalNetwork.NumVariables != 2 {
			t.Errorf("Network lost: %d variables", status.CausalNetwork.NumVariables)
		}
		if status.Hypotheses.Total == 0 {
			t.Error("Hypotheses lost in round trip")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Restored session unusable: %v", err)
	}
}

func TestManager_LoadAllSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	m := NewManager(orchestrator.DefaultConfig(), nil, storage)

	s := m.Create("good session")
	if err := m.Persist(context.Background(), s.ID); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ses-corrupt.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	m2 := NewManager(orchestrator.DefaultConfig(), nil, NewFileStorage(dir))
	loaded, err := m2.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if loaded != 1 {
		t.Errorf("Expected 1 restored session, got %d", loaded)
	}
}

func TestManager_PersistAll(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(orchestrator.DefaultConfig(), nil, NewFileStorage(dir))
	m.Create("one")
	m.Create("two")

	if err := m.PersistAll(context.Background()); err != nil {
		t.Fatalf("PersistAll failed: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("Expected 2 snapshot files, got %d", len(entries))
	}
}

func TestManager_Report(t *testing.T) {
	m := newTestManager(t)
	s := m.Create("report session")

	report, err := m.Report(s.ID)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.SessionID != s.ID || report.SessionName != "report session" {
		t.Errorf("Report missing session identity: %+v", report)
	}
}
