package tmux

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CapturePane returns the visible content of target plus up to lines of
// scrollback, with wrapped lines joined and trailing blank lines removed.
func CapturePane(ctx context.Context, target string, lines int) ([]string, error) {
	args := []string{"capture-pane", "-p", "-J", "-t", target}
	if lines > 0 {
		args = append(args, "-S", "-"+strconv.Itoa(lines))
	}
	out, err := run(ctx, "", args...)
	if err != nil {
		return nil, fmt.Errorf("capture pane %s: %w", target, err)
	}
	return SplitCapture(string(out)), nil
}

// SplitCapture splits raw capture-pane output into lines, dropping the
// blank padding tmux adds below the last written line.
func SplitCapture(raw string) []string {
	raw = strings.TrimRight(raw, "\n")
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \r")
	}
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}

// Tail returns the last n lines.
func Tail(lines []string, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
