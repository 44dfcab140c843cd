package tmux

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOldVersion is returned alongside the version string when tmux is
// older than 3.0. Sessions still work; paste-buffer -p may not.
var ErrOldVersion = errors.New("tmux version is below 3.0")

// CheckVersion returns the tmux version string. It fails with
// ErrNotInstalled when tmux is missing and ErrOldVersion when it is too old.
func CheckVersion() (string, error) {
	out, err := run(context.Background(), "", "-V")
	if err != nil {
		return "", fmt.Errorf("get tmux version: %w", err)
	}
	version := strings.TrimSpace(string(out))
	if major, ok := parseVersion(version); ok && major < 3.0 {
		return version, fmt.Errorf("%w: %s", ErrOldVersion, version)
	}
	return version, nil
}

// parseVersion reads the number from output like "tmux 3.3a" or
// "tmux next-3.5".
func parseVersion(version string) (float64, bool) {
	parts := strings.Fields(version)
	if len(parts) < 2 {
		return 0, false
	}
	num := strings.TrimPrefix(parts[1], "next-")
	num = strings.TrimRight(num, "abcdefghijklmnopqrstuvwxyz-")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
