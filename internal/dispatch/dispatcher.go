package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simonbystrom/teamctl/internal/agent"
	"github.com/simonbystrom/teamctl/internal/member"
	"github.com/simonbystrom/teamctl/internal/state"
	"github.com/simonbystrom/teamctl/internal/team"
)

// Recorder persists assignment records.
type Recorder interface {
	SaveAssignment(a state.Assignment) error
}

// Result describes a delivered assignment.
type Result struct {
	Target       string // lead id
	Started      bool   // the lead's session had to be started
	AssignmentID string
	Payload      string
}

// Dispatcher hands tasks to a team's lead.
type Dispatcher struct {
	lifecycle agent.Lifecycle
	resolver  *member.Resolver

	lookup       func(string) (string, bool)
	requireFresh bool
	recorder     Recorder
	newID        func() string
	now          func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLookup sets how working directory variables are resolved. The default
// is the process environment.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(d *Dispatcher) { d.lookup = fn }
}

// WithRequireFresh makes Dispatch fail when the lead is already running
// instead of reusing its session.
func WithRequireFresh(v bool) Option {
	return func(d *Dispatcher) { d.requireFresh = v }
}

// WithRecorder saves a record of every assignment of a valid team, before
// delivery is attempted and again once it finished.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithIDGenerator overrides assignment id generation (for testing).
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(d *Dispatcher) { d.now = fn }
}

func New(l agent.Lifecycle, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		lifecycle: l,
		resolver:  member.NewResolver(l),
		lookup:    team.EnvLookup(nil),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch validates cfg, makes sure its lead is running and sends it the
// task together with the team context. Delivery is fire and forget: Dispatch
// returns once the payload reached the lead's input.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg *team.Config, task string) (*Result, error) {
	if strings.TrimSpace(task) == "" {
		return nil, &Error{Kind: EmptyTask, Team: cfg.Name}
	}
	if !cfg.IsEnabled() {
		return nil, &Error{Kind: TeamDisabled, Team: cfg.Name}
	}
	if errs := team.Validate(cfg); len(errs) > 0 {
		return nil, &Error{Kind: InvalidConfig, Team: cfg.Name, Err: errs}
	}

	rec := state.Assignment{
		ID:         d.newID(),
		Team:       cfg.Name,
		Lead:       cfg.LeadAgent,
		Task:       task,
		AssignedAt: d.now(),
	}
	d.record(rec)

	leadID := cfg.LeadAgent
	lead, err := d.resolver.Resolve(ctx, leadID)
	if err != nil {
		return nil, &Error{Kind: LeadUnresolvable, Team: cfg.Name, Member: leadID, Err: err}
	}

	workDir, expandErr := team.ExpandWorkingDir(cfg.WorkingDirectory, d.lookup)
	started := false
	if lead.Running {
		if d.requireFresh {
			return nil, &Error{Kind: LeadAlreadyRunning, Team: cfg.Name, Member: leadID}
		}
		if expandErr != nil {
			// Only shown to the lead; its session already has a directory.
			workDir = cfg.WorkingDirectory
		}
	} else {
		if expandErr != nil {
			var uv *team.UnresolvedVariableError
			if errors.As(expandErr, &uv) {
				return nil, &Error{Kind: UnresolvedVariable, Team: cfg.Name, Member: leadID, Variable: uv.Name(), Err: expandErr}
			}
			return nil, &Error{Kind: UnresolvedVariable, Team: cfg.Name, Member: leadID, Err: expandErr}
		}
		if err := d.lifecycle.Start(ctx, leadID, workDir); err != nil {
			return nil, &Error{Kind: LeadStartFailed, Team: cfg.Name, Member: leadID, Err: err}
		}
		started = true
		lead.Running = true
		slog.Info("lead started", "team", cfg.Name, "member", leadID, "dir", workDir)
	}

	env := &Envelope{
		ID:               rec.ID,
		Task:             task,
		Team:             *cfg,
		Target:           leadID,
		Lead:             lead,
		Members:          member.Aggregate(ctx, d.resolver, cfg),
		WorkingDirectory: workDir,
	}
	payload := env.Render()

	rec.Started = started
	if err := d.lifecycle.SendInput(ctx, leadID, payload); err != nil {
		d.record(rec)
		return nil, &Error{Kind: SendFailed, Team: cfg.Name, Member: leadID, Err: err}
	}
	slog.Info("task dispatched", "team", cfg.Name, "member", leadID, "assignment", env.ID, "started", started)

	rec.Delivered = true
	d.record(rec)
	return &Result{
		Target:       leadID,
		Started:      started,
		AssignmentID: env.ID,
		Payload:      payload,
	}, nil
}

// record saves the assignment. Failures are logged and otherwise ignored;
// they never change the outcome of a dispatch.
func (d *Dispatcher) record(rec state.Assignment) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.SaveAssignment(rec); err != nil {
		slog.Warn("failed to save assignment record", "team", rec.Team, "assignment", rec.ID, "delivered", rec.Delivered, "error", err)
	}
}
