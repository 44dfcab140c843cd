package tmux

import "context"

// SessionOps abstracts the tmux session operations used to run agents, for
// testing.
type SessionOps interface {
	CheckVersion() (string, error)
	HasSession(ctx context.Context, name string) (bool, error)
	NewSession(ctx context.Context, name, dir string, command []string) error
	SetOption(ctx context.Context, target, key, value string) error
	PasteText(ctx context.Context, target, text string) error
	SendKeys(ctx context.Context, target string, keys ...string) error
	CapturePane(ctx context.Context, target string, lines int) ([]string, error)
}

// RealTmux delegates to the package-level functions.
type RealTmux struct{}

func (RealTmux) CheckVersion() (string, error) {
	return CheckVersion()
}

func (RealTmux) HasSession(ctx context.Context, name string) (bool, error) {
	return HasSession(ctx, name)
}

func (RealTmux) NewSession(ctx context.Context, name, dir string, command []string) error {
	return NewSession(ctx, name, dir, command)
}

func (RealTmux) SetOption(ctx context.Context, target, key, value string) error {
	return SetOption(ctx, target, key, value)
}

func (RealTmux) PasteText(ctx context.Context, target, text string) error {
	return PasteText(ctx, target, text)
}

func (RealTmux) SendKeys(ctx context.Context, target string, keys ...string) error {
	return SendKeys(ctx, target, keys...)
}

func (RealTmux) CapturePane(ctx context.Context, target string, lines int) ([]string, error) {
	return CapturePane(ctx, target, lines)
}
