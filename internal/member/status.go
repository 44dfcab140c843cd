package member

import (
	"context"
	"log/slog"

	"github.com/simonbystrom/teamctl/internal/agent"
	"github.com/simonbystrom/teamctl/internal/team"
)

// Status is one member's line in a team status report.
type Status struct {
	ID          string
	DisplayName string
	Role        string
	Running     bool
	IsLead      bool
	State       string // runtime state when known, see agent.StateProber
	Err         error  // resolve failure, if any
}

// Aggregate reports on every member of cfg in declared order. Members that
// cannot be resolved are reported as not running with Err set; Aggregate
// itself never fails.
func Aggregate(ctx context.Context, r *Resolver, cfg *team.Config) []Status {
	prober, _ := r.Lifecycle().(agent.StateProber)

	out := make([]Status, 0, len(cfg.Members))
	for _, m := range cfg.Members {
		s := Status{
			ID:          m.ID,
			DisplayName: m.ID,
			Role:        m.DisplayRole(),
			IsLead:      cfg.IsLead(m.ID),
		}
		res, err := r.Resolve(ctx, m.ID)
		if err != nil {
			slog.Debug("member unresolved", "team", cfg.Name, "member", m.ID, "error", err)
			s.Err = err
			out = append(out, s)
			continue
		}
		if res.Name != "" {
			s.DisplayName = res.Name
		}
		s.Running = res.Running
		if s.Running && prober != nil {
			if state, err := prober.RuntimeState(ctx, m.ID); err == nil {
				s.State = state
			}
		}
		out = append(out, s)
	}
	return out
}
