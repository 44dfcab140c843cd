package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/simonbystrom/teamctl/internal/tmux"
)

// --- Mock implementations ---

type mockTmux struct {
	mu    sync.Mutex
	calls []string

	versionErr    error
	sessions      map[string]bool
	hasSessionErr error
	newSessionErr error
	pasteErr      error
	captures      map[string][]string

	lastDir     string
	lastCommand []string
	lastPaste   string
}

func (m *mockTmux) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockTmux) hasCalled(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *mockTmux) countCalls(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (m *mockTmux) CheckVersion() (string, error) {
	m.record("CheckVersion")
	return "tmux 3.4", m.versionErr
}

func (m *mockTmux) HasSession(ctx context.Context, name string) (bool, error) {
	m.record("HasSession:" + name)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[name], m.hasSessionErr
}

func (m *mockTmux) NewSession(ctx context.Context, name, dir string, command []string) error {
	m.record("NewSession:" + name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.newSessionErr != nil {
		return m.newSessionErr
	}
	m.lastDir, m.lastCommand = dir, command
	if m.sessions == nil {
		m.sessions = map[string]bool{}
	}
	m.sessions[name] = true
	return nil
}

func (m *mockTmux) SetOption(ctx context.Context, target, key, value string) error {
	m.record("SetOption:" + key + "=" + value)
	return nil
}

func (m *mockTmux) PasteText(ctx context.Context, target, text string) error {
	m.record("PasteText:" + target)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPaste = text
	return m.pasteErr
}

func (m *mockTmux) SendKeys(ctx context.Context, target string, keys ...string) error {
	m.record("SendKeys:" + target)
	return nil
}

func (m *mockTmux) CapturePane(ctx context.Context, target string, lines int) ([]string, error) {
	m.record("CapturePane:" + target)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.captures[target]
	if !ok {
		return nil, errors.New("no such session")
	}
	return c, nil
}

// --- Helper ---

func newTestManager(t *testing.T, mt *mockTmux, defs ...*Definition) *Manager {
	t.Helper()
	return NewManager(NewCatalogFrom(defs...), WithTmux(mt), WithPollInterval(time.Millisecond))
}

// --- Tests ---

func TestSessionName(t *testing.T) {
	m := NewManager(NewCatalogFrom())
	if got := m.SessionName("EMP_0001"); got != "agent-emp-0001" {
		t.Errorf("SessionName = %q, want agent-emp-0001", got)
	}
	m = NewManager(NewCatalogFrom(), WithSessionPrefix("team-"))
	if got := m.SessionName("Writer"); got != "team-writer" {
		t.Errorf("SessionName = %q, want team-writer", got)
	}
}

func TestIsRunning(t *testing.T) {
	mt := &mockTmux{sessions: map[string]bool{"agent-emp-1": true}}
	m := newTestManager(t, mt)

	running, err := m.IsRunning(context.Background(), "EMP_1")
	if err != nil || !running {
		t.Errorf("IsRunning(EMP_1) = %v, %v", running, err)
	}
	running, err = m.IsRunning(context.Background(), "EMP_2")
	if err != nil || running {
		t.Errorf("IsRunning(EMP_2) = %v, %v", running, err)
	}
	if n := mt.countCalls("CheckVersion"); n != 1 {
		t.Errorf("CheckVersion called %d times, want 1", n)
	}
}

func TestIsRunning_TmuxMissing(t *testing.T) {
	mt := &mockTmux{versionErr: tmux.ErrNotInstalled}
	m := newTestManager(t, mt)

	_, err := m.IsRunning(context.Background(), "EMP_1")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("IsRunning = %v, want ErrBackendUnavailable", err)
	}
}

func TestIsRunning_OldTmuxStillWorks(t *testing.T) {
	mt := &mockTmux{versionErr: tmux.ErrOldVersion, sessions: map[string]bool{"agent-a": true}}
	m := newTestManager(t, mt)

	running, err := m.IsRunning(context.Background(), "a")
	if err != nil || !running {
		t.Errorf("IsRunning = %v, %v", running, err)
	}
}

func TestResolveName(t *testing.T) {
	m := newTestManager(t, &mockTmux{},
		&Definition{ID: "EMP_0001", Name: "Ada", Stem: "emp-0001"},
		&Definition{ID: "EMP_0002", Stem: "emp-0002"},
	)
	tests := []struct {
		id   string
		want string
	}{
		{"EMP_0001", "Ada"},
		{"emp-0001", "Ada"},
		{"EMP_0002", "EMP_0002"},
	}
	for _, tt := range tests {
		got, err := m.ResolveName(context.Background(), tt.id)
		if err != nil || got != tt.want {
			t.Errorf("ResolveName(%q) = %q, %v; want %q", tt.id, got, err, tt.want)
		}
	}

	if _, err := m.ResolveName(context.Background(), "EMP_9"); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("ResolveName(EMP_9) = %v, want ErrUnknownAgent", err)
	}
}

func TestStart(t *testing.T) {
	dir := t.TempDir()
	mt := &mockTmux{}
	m := newTestManager(t, mt, &Definition{ID: "EMP_1", Launcher: "claude --agent writer"})

	if err := m.Start(context.Background(), "EMP_1", dir); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !mt.hasCalled("NewSession:agent-emp-1") {
		t.Error("expected NewSession call")
	}
	if !mt.hasCalled("SetOption:history-limit=10000") {
		t.Error("expected history-limit to be set")
	}
	if mt.lastDir != dir {
		t.Errorf("dir = %q, want %q", mt.lastDir, dir)
	}
	if strings.Join(mt.lastCommand, " ") != "claude --agent writer" {
		t.Errorf("command = %v", mt.lastCommand)
	}
}

func TestStart_DefaultLauncher(t *testing.T) {
	mt := &mockTmux{}
	m := NewManager(NewCatalogFrom(&Definition{ID: "a"}), WithTmux(mt), WithLauncher("codex"))

	if err := m.Start(context.Background(), "a", ""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(mt.lastCommand) != 1 || mt.lastCommand[0] != "codex" {
		t.Errorf("command = %v, want [codex]", mt.lastCommand)
	}
}

func TestStart_Errors(t *testing.T) {
	disabled := false
	tests := []struct {
		name    string
		mt      *mockTmux
		id      string
		workDir string
		want    error
	}{
		{"unknown agent", &mockTmux{}, "nobody", "", ErrUnknownAgent},
		{"disabled agent", &mockTmux{}, "off", "", ErrAgentDisabled},
		{"tmux missing", &mockTmux{versionErr: tmux.ErrNotInstalled}, "a", "", ErrBackendUnavailable},
		{"session fails", &mockTmux{newSessionErr: errors.New("boom")}, "a", "", nil},
		{"missing dir", &mockTmux{}, "a", "/does/not/exist", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, tt.mt, &Definition{ID: "a"}, &Definition{ID: "off", Enabled: &disabled})
			err := m.Start(context.Background(), tt.id, tt.workDir)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Start = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSendInput(t *testing.T) {
	mt := &mockTmux{sessions: map[string]bool{"agent-a": true}}
	m := newTestManager(t, mt)

	if err := m.SendInput(context.Background(), "a", "line one\nline two"); err != nil {
		t.Fatalf("SendInput: %v", err)
	}
	if mt.lastPaste != "line one\nline two" {
		t.Errorf("pasted %q", mt.lastPaste)
	}

	if err := m.SendInput(context.Background(), "b", "x"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("SendInput to stopped agent = %v, want ErrNotRunning", err)
	}
}

func TestReadRecent(t *testing.T) {
	mt := &mockTmux{
		sessions: map[string]bool{"agent-a": true},
		captures: map[string][]string{"agent-a": {"1", "2", "3", "4"}},
	}
	m := newTestManager(t, mt)

	lines, err := m.ReadRecent(context.Background(), "a", 2)
	if err != nil {
		t.Fatalf("ReadRecent: %v", err)
	}
	if len(lines) != 2 || lines[0] != "3" || lines[1] != "4" {
		t.Errorf("ReadRecent = %v, want [3 4]", lines)
	}
}

func TestStream_ClosesWhenSessionEnds(t *testing.T) {
	mt := &mockTmux{sessions: map[string]bool{"agent-a": true}}
	m := newTestManager(t, mt)

	ch, err := m.Stream(context.Background(), "a")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected the channel to close without lines")
		}
	case <-time.After(time.Second):
		t.Fatal("stream did not close after capture failed")
	}
}

func TestStream_NotRunning(t *testing.T) {
	m := newTestManager(t, &mockTmux{})
	if _, err := m.Stream(context.Background(), "a"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stream = %v, want ErrNotRunning", err)
	}
}

func TestRuntimeState(t *testing.T) {
	tests := []struct {
		capture []string
		want    string
	}{
		{[]string{"Do you want to proceed?", "❯ 1. Yes", "  2. No"}, StatePermission},
		{[]string{"done.", "> ", "? for shortcuts"}, StateIdle},
		{[]string{"Running tests…"}, StateWorking},
	}
	for _, tt := range tests {
		mt := &mockTmux{
			sessions: map[string]bool{"agent-a": true},
			captures: map[string][]string{"agent-a": tt.capture},
		}
		got, err := newTestManager(t, mt).RuntimeState(context.Background(), "a")
		if err != nil || got != tt.want {
			t.Errorf("RuntimeState(%q) = %q, %v; want %q", tt.capture, got, err, tt.want)
		}
	}
}
