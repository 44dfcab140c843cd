package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/simonbystrom/teamctl/internal/member"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <name>",
		Short: "Show which members of a team are running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.Context(), args[0])
		},
	}
}

func (a *app) runStatus(ctx context.Context, name string) error {
	entry, err := a.findTeam(name)
	if err != nil {
		return err
	}
	cfg := entry.Config
	if cfg == nil {
		a.printProblems(a.stderr, entry.Problems)
		return exitf(1, "team file %s cannot be read", entry.Path)
	}
	if len(entry.Problems) > 0 {
		fmt.Fprintf(a.stderr, "%s %s has configuration problems:\n", a.styles.Warning.Render("warning:"), entry.Path)
		a.printProblems(a.stderr, entry.Problems)
	}
	if !cfg.IsEnabled() {
		return exitf(1, "team %s is disabled", cfg.Name)
	}

	statuses := member.Aggregate(ctx, member.NewResolver(a.lifecycle), cfg)
	s := a.styles
	fmt.Fprintf(a.stdout, "%s %s\n", s.Title.Render("Team "+cfg.Name), s.Dim.Render("lead: "+cfg.LeadAgent))

	idW, nameW, roleW := 0, 0, 0
	for _, st := range statuses {
		idW = max(idW, len(st.ID))
		nameW = max(nameW, lipgloss.Width(st.DisplayName))
		roleW = max(roleW, len(st.Role))
	}
	for _, st := range statuses {
		fmt.Fprintln(a.stdout, a.statusLine(st, idW, nameW, roleW))
	}

	last, err := a.store.LastAssignment(cfg.Name)
	if err != nil {
		slog.Warn("failed to read last assignment", "team", cfg.Name, "error", err)
	}
	if last != nil {
		task, _, _ := strings.Cut(strings.TrimSpace(last.Task), "\n")
		when := s.Dim.Render(last.AssignedAt.Local().Format("2006-01-02 15:04:05"))
		if !last.Delivered {
			when += " " + s.Warning.Render("(not delivered)")
		}
		fmt.Fprintf(a.stdout, "\n%s %s %s\n  %s\n",
			s.Header.Render("Last assignment"),
			last.ID,
			when,
			task)
	}
	return nil
}

func (a *app) statusLine(st member.Status, idW, nameW, roleW int) string {
	s := a.styles
	marker, state := "○", "stopped"
	switch {
	case st.Err != nil:
		marker, state = "✗", st.Err.Error()
	case st.Running && st.State != "":
		marker, state = "●", "running ("+st.State+")"
	case st.Running:
		marker, state = "●", "running"
	}
	stateStyle := s.State(st.Running, st.State)
	if st.Err != nil {
		stateStyle = s.Error
	}

	line := fmt.Sprintf("  %s %s  %s  %s  %s",
		stateStyle.Render(marker),
		pad(st.ID, idW),
		pad(st.DisplayName, nameW),
		pad(st.Role, roleW),
		stateStyle.Render(state),
	)
	if st.IsLead {
		line += "  " + s.Lead.Render("★ lead")
	}
	return line
}

// pad right-pads s to width w terminal cells.
func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
