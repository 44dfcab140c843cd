package tmux

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PasteText delivers text to target as one bracketed paste followed by
// Enter. Going through a named buffer keeps multi-line text intact where
// send-keys would submit it line by line.
func PasteText(ctx context.Context, target, text string) error {
	buffer := "teamctl-" + uuid.NewString()[:8]
	if _, err := run(ctx, text, "load-buffer", "-b", buffer, "-"); err != nil {
		return fmt.Errorf("load tmux buffer for %s: %w", target, err)
	}
	if _, err := run(ctx, "", "paste-buffer", "-p", "-d", "-b", buffer, "-t", target); err != nil {
		_, _ = run(ctx, "", "delete-buffer", "-b", buffer)
		return fmt.Errorf("paste into %s: %w", target, err)
	}
	return SendKeys(ctx, target, "Enter")
}

func SendKeys(ctx context.Context, target string, keys ...string) error {
	args := append([]string{"send-keys", "-t", target}, keys...)
	if _, err := run(ctx, "", args...); err != nil {
		return fmt.Errorf("send keys to %s: %w", target, err)
	}
	return nil
}
