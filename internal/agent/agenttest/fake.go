// Package agenttest provides an in-memory agent.Lifecycle for tests.
package agenttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/simonbystrom/teamctl/internal/agent"
)

// Fake is an in-memory lifecycle. Ids missing from Names are unknown.
// Zero maps are fine; the Fake allocates what it writes.
type Fake struct {
	mu    sync.Mutex
	calls []string

	Names   map[string]string   // id -> display name
	Running map[string]bool     // id -> has a live session
	Output  map[string][]string // id -> lines returned by ReadRecent and replayed by Stream
	States  map[string]string   // id -> runtime state
	// EndStream lists ids whose stream closes after replaying Output, as if
	// the session had exited. Other streams stay open until ctx is done.
	EndStream map[string]bool

	Unavailable bool  // every call fails with ErrBackendUnavailable
	StartErr    error // returned by Start
	SendErr     error // returned by SendInput
	ReadErr     error // returned by ReadRecent

	Started map[string]string   // id -> workDir passed to Start
	Sent    map[string][]string // id -> payloads passed to SendInput

	streamsOpen   int
	streamsOpened int
}

var (
	_ agent.Lifecycle   = (*Fake)(nil)
	_ agent.StateProber = (*Fake)(nil)
)

func (f *Fake) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// HasCalled reports whether call (e.g. "Start:EMP_1") was made.
func (f *Fake) HasCalled(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

// Calls returns every recorded call in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// StreamsOpen returns how many streams have not yet closed.
func (f *Fake) StreamsOpen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamsOpen
}

// StreamsOpened returns how many streams were ever opened.
func (f *Fake) StreamsOpened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamsOpened
}

// SetRunning changes an agent's session state.
func (f *Fake) SetRunning(id string, running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Running == nil {
		f.Running = map[string]bool{}
	}
	f.Running[id] = running
}

func (f *Fake) unavailable() error {
	if f.Unavailable {
		return agent.ErrBackendUnavailable
	}
	return nil
}

func (f *Fake) IsRunning(ctx context.Context, id string) (bool, error) {
	f.record("IsRunning:" + id)
	if err := f.unavailable(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Running[id], nil
}

func (f *Fake) ResolveName(ctx context.Context, id string) (string, error) {
	f.record("ResolveName:" + id)
	if err := f.unavailable(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.Names[id]
	if !ok {
		return "", fmt.Errorf("agent %q: %w", id, agent.ErrUnknownAgent)
	}
	return name, nil
}

func (f *Fake) Start(ctx context.Context, id, workDir string) error {
	f.record("Start:" + id)
	if err := f.unavailable(); err != nil {
		return err
	}
	if f.StartErr != nil {
		return f.StartErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Started == nil {
		f.Started = map[string]string{}
	}
	if f.Running == nil {
		f.Running = map[string]bool{}
	}
	f.Started[id] = workDir
	f.Running[id] = true
	return nil
}

func (f *Fake) SendInput(ctx context.Context, id, payload string) error {
	f.record("SendInput:" + id)
	if err := f.unavailable(); err != nil {
		return err
	}
	if f.SendErr != nil {
		return f.SendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Running[id] {
		return fmt.Errorf("agent %s: %w", id, agent.ErrNotRunning)
	}
	if f.Sent == nil {
		f.Sent = map[string][]string{}
	}
	f.Sent[id] = append(f.Sent[id], payload)
	return nil
}

func (f *Fake) ReadRecent(ctx context.Context, id string, n int) ([]string, error) {
	f.record("ReadRecent:" + id)
	if err := f.unavailable(); err != nil {
		return nil, err
	}
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Running[id] {
		return nil, fmt.Errorf("agent %s: %w", id, agent.ErrNotRunning)
	}
	lines := f.Output[id]
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return append([]string(nil), lines...), nil
}

func (f *Fake) Stream(ctx context.Context, id string) (<-chan string, error) {
	f.record("Stream:" + id)
	if err := f.unavailable(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	if !f.Running[id] {
		f.mu.Unlock()
		return nil, fmt.Errorf("agent %s: %w", id, agent.ErrNotRunning)
	}
	lines := append([]string(nil), f.Output[id]...)
	end := f.EndStream[id]
	f.streamsOpen++
	f.streamsOpened++
	f.mu.Unlock()

	ch := make(chan string)
	go func() {
		// Bookkeeping happens before close so observers of the closed
		// channel see the stream as finished.
		defer close(ch)
		defer func() {
			f.mu.Lock()
			f.streamsOpen--
			if end {
				f.Running[id] = false
			}
			f.mu.Unlock()
		}()
		for _, l := range lines {
			select {
			case ch <- l:
			case <-ctx.Done():
				return
			}
		}
		if end {
			return
		}
		<-ctx.Done()
	}()
	return ch, nil
}

func (f *Fake) RuntimeState(ctx context.Context, id string) (string, error) {
	f.record("RuntimeState:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.States[id]
	if !ok {
		return "", fmt.Errorf("no state for %s", id)
	}
	return state, nil
}
