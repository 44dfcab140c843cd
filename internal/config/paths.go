package config

import (
	"os"
	"path/filepath"

	"github.com/simonbystrom/teamctl/internal/git"
)

// Locator fills in the directories the config file leaves empty.
type Locator struct {
	Getenv   func(string) string
	FindRepo func(dir string) (string, error)
	Cwd      string
}

// NewLocator returns a Locator backed by the process environment and git.
func NewLocator() Locator {
	cwd, _ := os.Getwd()
	return Locator{Getenv: os.Getenv, FindRepo: git.RepoRoot, Cwd: cwd}
}

// RepoRoot returns $REPO_ROOT, or the root of the git repository containing
// the working directory. Empty when neither is available.
func (l Locator) RepoRoot() string {
	if v := l.Getenv("REPO_ROOT"); v != "" {
		return v
	}
	if l.FindRepo == nil {
		return ""
	}
	root, err := l.FindRepo(l.Cwd)
	if err != nil {
		return ""
	}
	return root
}

// TeamsDir resolves the teams directory: the configured value, then
// $TEAMS_DIR, then <repo root>/teams, then ./teams.
func (l Locator) TeamsDir(configured string) string {
	if configured != "" {
		return configured
	}
	if v := l.Getenv("TEAMS_DIR"); v != "" {
		return v
	}
	if root := l.RepoRoot(); root != "" {
		return filepath.Join(root, "teams")
	}
	return filepath.Join(l.Cwd, "teams")
}

// Resolve returns p with every empty directory filled in.
func (l Locator) Resolve(p Paths) Paths {
	p.TeamsDir = l.TeamsDir(p.TeamsDir)
	if p.AgentsDir == "" {
		p.AgentsDir = filepath.Join(filepath.Dir(filepath.Clean(p.TeamsDir)), "agents")
	}
	if p.StateDir == "" {
		p.StateDir = filepath.Join(Dir(), "state")
	}
	return p
}
