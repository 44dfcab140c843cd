package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/simonbystrom/teamctl/internal/tmux"
)

const (
	defaultSessionPrefix = "agent-"
	defaultLauncher      = "claude"
	defaultHistoryLimit  = 10000
	defaultPollInterval  = time.Second
	defaultStreamWindow  = 200
)

var (
	_ Lifecycle   = (*Manager)(nil)
	_ StateProber = (*Manager)(nil)
)

// Manager runs each agent in its own detached tmux session.
type Manager struct {
	catalog *Catalog
	tmux    tmux.SessionOps

	sessionPrefix string
	launcher      string
	historyLimit  int
	pollInterval  time.Duration
	streamWindow  int

	checkOnce sync.Once
	checkErr  error
}

// Option configures a Manager.
type Option func(*Manager)

// WithTmux overrides the tmux operations (for testing).
func WithTmux(t tmux.SessionOps) Option {
	return func(m *Manager) { m.tmux = t }
}

// WithSessionPrefix sets the prefix of session names.
func WithSessionPrefix(p string) Option {
	return func(m *Manager) { m.sessionPrefix = p }
}

// WithLauncher sets the command used for agents whose definition names
// none.
func WithLauncher(l string) Option {
	return func(m *Manager) {
		if l != "" {
			m.launcher = l
		}
	}
}

func WithHistoryLimit(n int) Option {
	return func(m *Manager) { m.historyLimit = n }
}

// WithPollInterval sets how often streams capture the pane.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

func NewManager(catalog *Catalog, opts ...Option) *Manager {
	m := &Manager{
		catalog:       catalog,
		tmux:          tmux.RealTmux{},
		sessionPrefix: defaultSessionPrefix,
		launcher:      defaultLauncher,
		historyLimit:  defaultHistoryLimit,
		pollInterval:  defaultPollInterval,
		streamWindow:  defaultStreamWindow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SessionName returns the tmux session an agent runs in, e.g. EMP_0001
// becomes agent-emp-0001.
func (m *Manager) SessionName(id string) string {
	return m.sessionPrefix + normalizeID(id)
}

// available checks the tmux installation once per Manager.
func (m *Manager) available() error {
	m.checkOnce.Do(func() {
		version, err := m.tmux.CheckVersion()
		switch {
		case err == nil:
			slog.Debug("tmux found", "version", version)
		case errors.Is(err, tmux.ErrOldVersion):
			slog.Warn("tmux is older than 3.0, input delivery may not work", "version", version)
		default:
			m.checkErr = fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	})
	return m.checkErr
}

func (m *Manager) IsRunning(ctx context.Context, id string) (bool, error) {
	if err := m.available(); err != nil {
		return false, err
	}
	ok, err := m.tmux.HasSession(ctx, m.SessionName(id))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return ok, nil
}

// ResolveName returns the agent's display name from its definition.
func (m *Manager) ResolveName(ctx context.Context, id string) (string, error) {
	d, err := m.catalog.Lookup(id)
	if err != nil {
		return "", err
	}
	return d.DisplayName(), nil
}

// Start launches the agent in a new session. workDir overrides the
// definition's working directory; with neither the current directory is
// used.
func (m *Manager) Start(ctx context.Context, id, workDir string) error {
	if err := m.available(); err != nil {
		return err
	}
	d, err := m.catalog.Lookup(id)
	if err != nil {
		return err
	}
	if !d.IsEnabled() {
		return fmt.Errorf("agent %s: %w", id, ErrAgentDisabled)
	}

	dir := workDir
	if dir == "" && d.WorkingDirectory != "" {
		dir = os.ExpandEnv(d.WorkingDirectory)
	}
	if dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("agent %s: working directory %s does not exist", id, dir)
		}
	}

	launcher := d.Launcher
	if launcher == "" {
		launcher = m.launcher
	}
	command := strings.Fields(launcher)
	if len(command) == 0 {
		return fmt.Errorf("agent %s: empty launcher", id)
	}

	session := m.SessionName(id)
	if err := m.tmux.NewSession(ctx, session, dir, command); err != nil {
		return err
	}
	if m.historyLimit > 0 {
		if err := m.tmux.SetOption(ctx, session, "history-limit", strconv.Itoa(m.historyLimit)); err != nil {
			slog.Warn("failed to set history-limit", "session", session, "error", err)
		}
	}
	slog.Info("agent started", "id", id, "session", session, "dir", dir, "launcher", launcher)
	return nil
}

func (m *Manager) requireRunning(ctx context.Context, id string) (string, error) {
	running, err := m.IsRunning(ctx, id)
	if err != nil {
		return "", err
	}
	if !running {
		return "", fmt.Errorf("agent %s: %w", id, ErrNotRunning)
	}
	return m.SessionName(id), nil
}

// SendInput pastes payload into the agent's session and submits it.
func (m *Manager) SendInput(ctx context.Context, id, payload string) error {
	session, err := m.requireRunning(ctx, id)
	if err != nil {
		return err
	}
	if err := m.tmux.PasteText(ctx, session, payload); err != nil {
		return err
	}
	slog.Debug("input sent", "id", id, "session", session, "bytes", len(payload))
	return nil
}

func (m *Manager) ReadRecent(ctx context.Context, id string, n int) ([]string, error) {
	session, err := m.requireRunning(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := m.tmux.CapturePane(ctx, session, n)
	if err != nil {
		return nil, err
	}
	return tmux.Tail(lines, n), nil
}

// Stream tails the agent's pane. The returned channel is unbuffered and
// closed once the session is gone or ctx is done.
func (m *Manager) Stream(ctx context.Context, id string) (<-chan string, error) {
	session, err := m.requireRunning(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make(chan string)
	tailer := tmux.NewTailer(m.tmux, session, m.streamWindow, m.pollInterval)
	go func() {
		defer close(out)
		if err := tailer.Run(ctx, out); err != nil && ctx.Err() == nil {
			slog.Debug("stream ended", "id", id, "session", session, "error", err)
		}
	}()
	return out, nil
}

// RuntimeState classifies the bottom of the agent's pane.
func (m *Manager) RuntimeState(ctx context.Context, id string) (string, error) {
	session, err := m.requireRunning(ctx, id)
	if err != nil {
		return "", err
	}
	lines, err := m.tmux.CapturePane(ctx, session, 0)
	if err != nil {
		return "", err
	}
	switch tmux.Classify(strings.Join(lines, "\n")) {
	case tmux.PanePermission:
		return StatePermission, nil
	case tmux.PaneInput:
		return StateIdle, nil
	default:
		return StateWorking, nil
	}
}
