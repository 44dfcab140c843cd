package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepo is returned when dir is not inside a git work tree.
var ErrNotRepo = errors.New("not a git repository")

// RepoRoot returns the top-level directory of the repository containing dir.
// When dir is inside a submodule the superproject's root is returned, so
// team files kept at the top of a monorepo are found from anywhere in it.
func RepoRoot(dir string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", fmt.Errorf("git: %w", err)
	}
	if root, err := revParse(dir, "--show-superproject-working-tree"); err == nil && root != "" {
		return root, nil
	}
	root, err := revParse(dir, "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%s: %w", dir, ErrNotRepo)
	}
	return root, nil
}

func revParse(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir, "rev-parse"}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
