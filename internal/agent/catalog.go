package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Catalog holds the agent definitions found in one directory. It is loaded
// on first use.
type Catalog struct {
	dir string

	mu     sync.Mutex
	loaded bool
	defs   []*Definition
	err    error
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// NewCatalogFrom returns a catalog holding defs, for testing.
func NewCatalogFrom(defs ...*Definition) *Catalog {
	return &Catalog{loaded: true, defs: defs}
}

func (c *Catalog) load() ([]*Definition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.defs, c.err
	}
	c.loaded = true

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("agents dir missing", "dir", c.dir)
			return nil, nil
		}
		c.err = fmt.Errorf("read agents dir %s: %w", c.dir, err)
		return nil, c.err
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		path := filepath.Join(c.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("agent file unreadable", "path", path, "error", err)
			continue
		}
		d, err := ParseDefinition(strings.TrimSuffix(name, ".md"), data)
		if err != nil {
			slog.Debug("agent definition parse error", "path", path, "error", err)
			continue
		}
		c.defs = append(c.defs, d)
	}
	return c.defs, nil
}

// Lookup finds the definition for id. It fails with ErrUnknownAgent when
// none matches and ErrBackendUnavailable when the directory is unreadable.
func (c *Catalog) Lookup(id string) (*Definition, error) {
	defs, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	for _, d := range defs {
		if d.Matches(id) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("agent %q: %w", id, ErrUnknownAgent)
}

// All returns every definition in the catalog.
func (c *Catalog) All() ([]*Definition, error) {
	return c.load()
}
