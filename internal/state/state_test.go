package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadAssignment(t *testing.T) {
	s := NewStore(t.TempDir())
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := s.SaveAssignment(Assignment{
		ID:         "a1",
		Team:       "backend",
		Lead:       "EMP_0001",
		Task:       "fix the build",
		Started:    true,
		Delivered:  true,
		AssignedAt: at,
	})
	if err != nil {
		t.Fatalf("SaveAssignment: %v", err)
	}

	got, err := s.LastAssignment("backend")
	if err != nil {
		t.Fatalf("LastAssignment: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.ID != "a1" || got.Lead != "EMP_0001" || got.Task != "fix the build" {
		t.Errorf("got %+v", got)
	}
	if !got.Started || !got.Delivered {
		t.Errorf("Started = %v, Delivered = %v, want both true", got.Started, got.Delivered)
	}
	if !got.AssignedAt.Equal(at) {
		t.Errorf("AssignedAt = %v, want %v", got.AssignedAt, at)
	}
}

func TestSaveAssignment_Replaces(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, task := range []string{"first", "second"} {
		if err := s.SaveAssignment(Assignment{ID: task, Team: "t", Task: task}); err != nil {
			t.Fatalf("SaveAssignment: %v", err)
		}
	}
	got, err := s.LastAssignment("t")
	if err != nil {
		t.Fatalf("LastAssignment: %v", err)
	}
	if got.Task != "second" {
		t.Errorf("Task = %q, want %q", got.Task, "second")
	}
}

func TestLastAssignment_None(t *testing.T) {
	s := NewStore(t.TempDir())
	got, err := s.LastAssignment("missing")
	if err != nil {
		t.Fatalf("LastAssignment: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestLastAssignment_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assignments", "t.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(dir).LastAssignment("t"); err == nil {
		t.Error("expected an error for a corrupt record")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")
	if err := os.WriteFile(path, []byte("old content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}
