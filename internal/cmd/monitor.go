package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simonbystrom/teamctl/internal/monitor"
	"github.com/simonbystrom/teamctl/internal/team"
	"github.com/simonbystrom/teamctl/internal/ui"
)

type monitorOptions struct {
	follow bool
	lines  int
	tui    bool
}

func newMonitorCmd(a *app) *cobra.Command {
	var opts monitorOptions
	cmd := &cobra.Command{
		Use:   "monitor <name>",
		Short: "Show the output of every member of a team",
		Long: `Print the most recent output of each member, or with --follow stream new
output from all members as it appears, each line prefixed with the member
that produced it. Interrupt to stop following.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lines") {
				opts.lines = a.cfg.Monitor.Lines
			}
			return a.runMonitor(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.follow, "follow", "F", false, "stream output until interrupted")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "lines per member to show without --follow")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "follow in a full-screen viewer")
	return cmd
}

func (a *app) runMonitor(ctx context.Context, name string, opts monitorOptions) error {
	entry, err := a.findUsableTeam(name)
	if err != nil {
		return err
	}
	cfg := entry.Config

	notify := func(n monitor.Notice) {
		fmt.Fprintf(a.stderr, "%s %s\n", a.styles.Warning.Render("note:"), n)
	}
	if opts.tui {
		notify = func(n monitor.Notice) {
			slog.Info("member not followed", "team", cfg.Name, "member", n.MemberID, "error", n.Err)
		}
	}
	m := monitor.New(a.lifecycle,
		monitor.WithBuffer(a.cfg.Monitor.Buffer),
		monitor.WithPollInterval(a.cfg.Monitor.PollInterval.Duration),
		monitor.WithNotify(notify),
	)

	if !opts.follow && !opts.tui {
		return a.printSnapshot(ctx, m, cfg, opts.lines)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, err := m.Follow(ctx, cfg)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	if opts.tui {
		return a.followTUI(ctx, stop, cfg, feed)
	}

	index := ui.MemberIndex(cfg)
	for l := range feed {
		fmt.Fprintln(a.stdout, ui.RenderLine(a.styles, index[l.MemberID], l))
	}
	slog.Debug("follow finished", "team", cfg.Name)
	return nil
}

func (a *app) followTUI(ctx context.Context, stop context.CancelFunc, cfg *team.Config, feed <-chan monitor.Line) error {
	p := tea.NewProgram(ui.NewFollowModel(cfg, feed, a.styles),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.stdout),
	)
	_, err := p.Run()

	// Stop following and wait for the feed to close.
	stop()
	for range feed {
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("follow viewer: %w", err)
	}
	return nil
}

func (a *app) printSnapshot(ctx context.Context, m *monitor.Monitor, cfg *team.Config, n int) error {
	snap, err := m.Snapshot(ctx, cfg, n)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	s := a.styles
	for i, o := range snap.Outputs {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		header := s.Member(i).Render(fmt.Sprintf("== %s (%s) ==", o.ID, o.Name))
		switch {
		case o.Err != nil:
			fmt.Fprintf(a.stdout, "%s %s\n", header, s.Error.Render(o.Err.Error()))
			continue
		case !o.Running:
			fmt.Fprintf(a.stdout, "%s %s\n", header, s.Stopped.Render("not running"))
			continue
		}
		fmt.Fprintln(a.stdout, header)
		if len(o.Lines) == 0 {
			fmt.Fprintln(a.stdout, s.Dim.Render("(no output)"))
		}
		for _, line := range o.Lines {
			fmt.Fprintln(a.stdout, line)
		}
	}
	return nil
}
