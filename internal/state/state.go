package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Assignment is the persisted record of the last task handed to a team.
// It is saved before delivery is attempted; Delivered is set once the task
// reached the lead, so an undelivered task can be assigned again.
type Assignment struct {
	ID         string    `json:"id"`
	Team       string    `json:"team"`
	Lead       string    `json:"lead"`
	Task       string    `json:"task"`
	Started    bool      `json:"started"`
	Delivered  bool      `json:"delivered"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Store keeps one assignment record per team under dir/assignments.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(team string) string {
	return filepath.Join(s.dir, "assignments", team+".json")
}

// SaveAssignment atomically replaces the team's assignment record.
func (s *Store) SaveAssignment(a Assignment) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assignment: %w", err)
	}
	path := s.path(a.Team)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return WriteFileAtomic(path, data, 0o644)
}

// LastAssignment reads the team's assignment record.
// Returns nil, nil if none was saved.
func (s *Store) LastAssignment(team string) (*Assignment, error) {
	data, err := os.ReadFile(s.path(team))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read assignment: %w", err)
	}

	var a Assignment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal assignment: %w", err)
	}
	return &a, nil
}

// WriteFileAtomic writes data next to path and renames it into place, so
// readers see either the old content or the new, never a mix.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
