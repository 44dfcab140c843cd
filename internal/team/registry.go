package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/simonbystrom/teamctl/internal/state"
)

const (
	fileExt         = ".md"
	lockFileName    = ".teamctl.lock"
	lockTimeout     = 5 * time.Second
	lockRetryPeriod = 100 * time.Millisecond
)

// Entry is one team file found under a registry root.
type Entry struct {
	Path string
	Stem string // file name without extension

	// Config is nil when the header could not be decoded at all.
	Config   *Config
	Problems ConfigErrors
}

// Name returns the team's declared name, or the file stem when the file
// carries none.
func (e *Entry) Name() string {
	if e.Config != nil && e.Config.Name != "" {
		return e.Config.Name
	}
	return e.Stem
}

// Valid reports whether the entry parsed without problems.
func (e *Entry) Valid() bool {
	return e.Config != nil && len(e.Problems) == 0
}

// Registry enumerates, looks up and creates team files in one directory.
type Registry struct {
	root string
}

// NewRegistry returns a registry over root.
func NewRegistry(root string) *Registry {
	return &Registry{root: root}
}

// Root returns the directory the registry reads.
func (r *Registry) Root() string {
	return r.root
}

// List reads every team file, sorted by file name. Files with problems are
// returned with Problems set. A missing root yields an empty list.
func (r *Registry) List() ([]*Entry, error) {
	dirEntries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read teams dir %s: %w", r.root, err)
	}

	var entries []*Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, r.load(filepath.Join(r.root, name)))
	}
	return entries, nil
}

func (r *Registry) load(path string) *Entry {
	stem := strings.TrimSuffix(filepath.Base(path), fileExt)
	e := &Entry{Path: path, Stem: stem}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("team file unreadable", "path", path, "error", err)
		e.Problems = ConfigErrors{{Kind: KindUnreadable, Detail: err.Error()}}
		return e
	}

	e.Config, e.Problems = Decode(data)
	if e.Config != nil && e.Config.Name != "" && e.Config.Name != stem {
		e.Problems = append(e.Problems, &ConfigError{
			Kind:   KindNameMismatch,
			Field:  "name",
			Value:  e.Config.Name,
			Detail: stem,
		})
	}
	if len(e.Problems) > 0 {
		slog.Debug("team config has problems", "team", stem, "error", e.Problems)
	}
	return e
}

// Get finds a team by declared name, falling back to a case-insensitive
// match on the file stem.
func (r *Registry) Get(name string) (*Entry, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Config != nil && e.Config.Name == name {
			return e, nil
		}
	}
	for _, e := range entries {
		if strings.EqualFold(e.Stem, name) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("team %q: %w", name, ErrNotFound)
}

// Names returns the name of every team file, for suggestions.
func (r *Registry) Names() ([]string, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// PathFor returns the file a team named name is stored in.
func (r *Registry) PathFor(name string) string {
	return filepath.Join(r.root, name+fileExt)
}

// Create validates cfg and writes it to <root>/<name>.md. Unless overwrite
// is set an existing file is left untouched and ErrAlreadyExists returned.
// Writers are serialized through a lock file in root.
func (r *Registry) Create(cfg *Config, overwrite bool) (string, error) {
	if errs := Validate(cfg); len(errs) > 0 {
		return "", errs
	}

	data, err := Serialize(cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return "", fmt.Errorf("create teams dir: %w", err)
	}

	lock, err := r.lock()
	if err != nil {
		return "", err
	}
	defer lock.Unlock()

	path := r.PathFor(cfg.Name)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s: %w", path, ErrAlreadyExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := state.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write team %s: %w", cfg.Name, err)
	}
	slog.Info("team written", "team", cfg.Name, "path", path, "overwrite", overwrite)
	return path, nil
}

func (r *Registry) lock() (*flock.Flock, error) {
	lockPath := filepath.Join(r.root, lockFileName)
	lock := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, lockRetryPeriod)
	if err != nil {
		return nil, fmt.Errorf("acquire teams lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("timeout waiting for teams lock %s", lockPath)
	}
	return lock, nil
}
