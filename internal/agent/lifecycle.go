package agent

import (
	"context"
	"errors"
)

var (
	// ErrUnknownAgent means no agent definition matches the id.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrBackendUnavailable means the process backend cannot be reached.
	ErrBackendUnavailable = errors.New("agent backend unavailable")
	// ErrAgentDisabled is returned by Start for agents marked disabled.
	ErrAgentDisabled = errors.New("agent is disabled")
	// ErrNotRunning is returned by operations that need a live session.
	ErrNotRunning = errors.New("agent is not running")
)

// Lifecycle is the boundary to whatever starts agents, feeds them input
// and exposes their output.
type Lifecycle interface {
	IsRunning(ctx context.Context, id string) (bool, error)
	Start(ctx context.Context, id, workDir string) error
	SendInput(ctx context.Context, id, payload string) error
	// ReadRecent returns up to n of the most recent output lines.
	ReadRecent(ctx context.Context, id string, n int) ([]string, error)
	// Stream yields output lines as they appear. The channel is closed when
	// the agent's session ends or ctx is done.
	Stream(ctx context.Context, id string) (<-chan string, error)
	ResolveName(ctx context.Context, id string) (string, error)
}

// Runtime states reported by StateProber.
const (
	StateIdle       = "idle"
	StateWorking    = "working"
	StatePermission = "waiting: permission"
)

// StateProber is implemented by lifecycles that can tell what a running
// agent is doing.
type StateProber interface {
	RuntimeState(ctx context.Context, id string) (string, error)
}
