package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonbystrom/teamctl/internal/agent"
)

var (
	ErrUnknownMember = errors.New("unknown member")
	ErrUnavailable   = errors.New("member resolver unavailable")
)

// ErrorKind classifies a resolve failure.
type ErrorKind int

const (
	UnknownMember ErrorKind = iota + 1
	ResolverUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownMember:
		return "unknown member"
	case ResolverUnavailable:
		return "resolver unavailable"
	default:
		return "unknown"
	}
}

// ResolveError reports why a member id could not be resolved.
type ResolveError struct {
	ID   string
	Kind ErrorKind
	Err  error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve member %s: %s: %v", e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve member %s: %s", e.ID, e.Kind)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *ResolveError) Is(target error) bool {
	switch target {
	case ErrUnknownMember:
		return e.Kind == UnknownMember
	case ErrUnavailable:
		return e.Kind == ResolverUnavailable
	}
	return false
}

// Resolved is a member id joined with what the lifecycle knows about it.
type Resolved struct {
	ID      string
	Name    string
	Running bool
}

// Resolver maps member ids to agents. It never changes agent state.
type Resolver struct {
	lifecycle agent.Lifecycle
}

func NewResolver(l agent.Lifecycle) *Resolver {
	return &Resolver{lifecycle: l}
}

// Lifecycle returns the lifecycle the resolver queries.
func (r *Resolver) Lifecycle() agent.Lifecycle {
	return r.lifecycle
}

func (r *Resolver) Resolve(ctx context.Context, id string) (Resolved, error) {
	name, err := r.lifecycle.ResolveName(ctx, id)
	if err != nil {
		return Resolved{}, classify(id, err)
	}
	running, err := r.lifecycle.IsRunning(ctx, id)
	if err != nil {
		return Resolved{}, classify(id, err)
	}
	return Resolved{ID: id, Name: name, Running: running}, nil
}

func classify(id string, err error) *ResolveError {
	kind := ResolverUnavailable
	if errors.Is(err, agent.ErrUnknownAgent) {
		kind = UnknownMember
	}
	return &ResolveError{ID: id, Kind: kind, Err: err}
}
