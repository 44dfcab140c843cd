package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotInstalled is returned when the tmux binary cannot be found.
var ErrNotInstalled = errors.New("tmux is not installed")

func run(ctx context.Context, stdin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrNotInstalled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// HasSession reports whether a session with exactly this name exists. A
// tmux server that is not running simply has no sessions.
func HasSession(ctx context.Context, name string) (bool, error) {
	_, err := run(ctx, "", "has-session", "-t", "="+name)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("check tmux session %s: %w", name, err)
}

// NewSession starts a detached session running command in dir.
func NewSession(ctx context.Context, name, dir string, command []string) error {
	args := []string{"new-session", "-d", "-s", name}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	args = append(args, command...)
	if _, err := run(ctx, "", args...); err != nil {
		return fmt.Errorf("create tmux session %s: %w", name, err)
	}
	return nil
}

func SetOption(ctx context.Context, target, key, value string) error {
	if _, err := run(ctx, "", "set-option", "-t", target, key, value); err != nil {
		return fmt.Errorf("set tmux option %s on %s: %w", key, target, err)
	}
	return nil
}
