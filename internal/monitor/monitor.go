package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc"
	"golang.org/x/sync/errgroup"

	"github.com/simonbystrom/teamctl/internal/agent"
	"github.com/simonbystrom/teamctl/internal/member"
	"github.com/simonbystrom/teamctl/internal/team"
)

// ErrNoMembers is returned when there is nobody to monitor.
var ErrNoMembers = errors.New("team has no members")

const (
	defaultBuffer       = 64
	defaultPollInterval = 3 * time.Second
	defaultConcurrency  = 8
)

// Line is one output line attributed to the member that produced it.
type Line struct {
	MemberID string
	Name     string
	Text     string
	Time     time.Time // when the line was received
}

// Notice is an advisory about a member that cannot be followed right now.
type Notice struct {
	MemberID string
	Name     string
	Err      error // nil when the member is simply not running
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s (%s): %v", n.MemberID, n.Name, n.Err)
	}
	return fmt.Sprintf("%s (%s) is not running, waiting for it to start", n.MemberID, n.Name)
}

// Monitor reads member output for a team.
type Monitor struct {
	lifecycle agent.Lifecycle
	resolver  *member.Resolver

	buffer      int
	poll        time.Duration
	concurrency int
	notify      func(Notice)
	now         func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithBuffer sets the capacity of the channel readers deliver into.
// Readers block when it is full; lines are never dropped.
func WithBuffer(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.buffer = n
		}
	}
}

// WithPollInterval sets how often stopped members are re-checked.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.poll = d
		}
	}
}

// WithNotify receives one Notice per member that is stopped or unknown
// when first checked. fn is called from reader goroutines and must be safe
// for concurrent use.
func WithNotify(fn func(Notice)) Option {
	return func(m *Monitor) { m.notify = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(m *Monitor) { m.now = fn }
}

// WithConcurrency bounds how many members Snapshot reads at once.
func WithConcurrency(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

func New(l agent.Lifecycle, opts ...Option) *Monitor {
	m := &Monitor{
		lifecycle:   l,
		resolver:    member.NewResolver(l),
		buffer:      defaultBuffer,
		poll:        defaultPollInterval,
		concurrency: defaultConcurrency,
		notify:      func(Notice) {},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Output is one member's part of a snapshot.
type Output struct {
	ID      string
	Name    string
	Running bool
	Lines   []string // oldest first
	Err     error
}

// Snapshot holds recent output for every member in declared order.
type Snapshot struct {
	Team    string
	Outputs []Output
}

// ByMember returns the lines keyed by member id.
func (s *Snapshot) ByMember() map[string][]string {
	out := make(map[string][]string, len(s.Outputs))
	for _, o := range s.Outputs {
		out[o.ID] = o.Lines
	}
	return out
}

// Snapshot reads the last n lines of every member. Members that are
// stopped or fail to read are recorded in their Output and never fail the
// whole snapshot.
func (m *Monitor) Snapshot(ctx context.Context, cfg *team.Config, n int) (*Snapshot, error) {
	if len(cfg.Members) == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", cfg.Name, ErrNoMembers)
	}

	outs := make([]Output, len(cfg.Members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, mem := range cfg.Members {
		i, mem := i, mem
		g.Go(func() error {
			outs[i] = m.read(gctx, mem.ID, n)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Snapshot{Team: cfg.Name, Outputs: outs}, nil
}

func (m *Monitor) read(ctx context.Context, id string, n int) Output {
	o := Output{ID: id, Name: id}
	res, err := m.resolver.Resolve(ctx, id)
	if err != nil {
		o.Err = err
		return o
	}
	if res.Name != "" {
		o.Name = res.Name
	}
	o.Running = res.Running
	if !o.Running {
		return o
	}
	lines, err := m.lifecycle.ReadRecent(ctx, id, n)
	if err != nil {
		slog.Debug("read recent output failed", "member", id, "error", err)
		o.Err = err
		return o
	}
	o.Lines = lines
	return o
}

// Follow streams the output of every member into one channel until ctx is
// done. Each member has its own reader, so a silent or stopped member never
// holds up the others. Lines arrive in the order readers delivered them.
//
// The returned channel is closed as soon as ctx is done, even when an
// upstream stream never ends. No line is delivered once ctx is done.
// Readers finish in the background.
func (m *Monitor) Follow(ctx context.Context, cfg *team.Config) (<-chan Line, error) {
	if len(cfg.Members) == 0 {
		return nil, fmt.Errorf("follow %s: %w", cfg.Name, ErrNoMembers)
	}

	merged := make(chan Line, m.buffer)
	out := make(chan Line)

	var wg conc.WaitGroup
	for _, mem := range cfg.Members {
		mem := mem
		wg.Go(func() {
			m.reader(ctx, mem.ID, merged)
		})
	}
	go func() {
		wg.Wait()
		close(merged)
		slog.Debug("follow readers finished", "team", cfg.Name)
	}()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case l, ok := <-merged:
				if !ok {
					return
				}
				if !deliver(ctx, out, l) {
					return
				}
			}
		}
	}()

	return out, nil
}

// deliver sends l on out unless ctx is done first. Cancellation wins over a
// ready receiver.
func deliver(ctx context.Context, out chan<- Line, l Line) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case out <- l:
		return true
	}
}

// reader follows one member until ctx is done, going back to polling
// whenever the member is not running.
func (m *Monitor) reader(ctx context.Context, id string, merged chan<- Line) {
	name := id
	noticed := false
	if res, err := m.resolver.Resolve(ctx, id); err != nil {
		if ctx.Err() != nil {
			return
		}
		m.notify(Notice{MemberID: id, Name: name, Err: err})
		noticed = true
	} else if res.Name != "" {
		name = res.Name
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		running, err := m.lifecycle.IsRunning(ctx, id)
		if err == nil && running {
			stream, serr := m.lifecycle.Stream(ctx, id)
			if serr == nil {
				m.forward(ctx, id, name, stream, merged)
				if ctx.Err() != nil {
					return
				}
				slog.Debug("member stream ended", "member", id)
			}
			err = serr
		}
		if ctx.Err() != nil {
			return
		}
		if !noticed {
			if errors.Is(err, agent.ErrNotRunning) {
				err = nil
			}
			m.notify(Notice{MemberID: id, Name: name, Err: err})
			noticed = true
		}
		timer.Reset(m.poll)
	}
}

// forward copies stream into merged until the stream ends or ctx is done.
// A stream still open at cancellation is drained in the background so its
// producer can finish without holding up the reader.
func (m *Monitor) forward(ctx context.Context, id, name string, stream <-chan string, merged chan<- Line) {
	for {
		select {
		case <-ctx.Done():
			go drain(stream)
			return
		case text, ok := <-stream:
			if !ok {
				return
			}
			l := Line{MemberID: id, Name: name, Text: text, Time: m.now()}
			select {
			case merged <- l:
			case <-ctx.Done():
				go drain(stream)
				return
			}
		}
	}
}

func drain(stream <-chan string) {
	for range stream {
	}
}
