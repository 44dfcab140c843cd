package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simonbystrom/teamctl/internal/dispatch"
	"github.com/simonbystrom/teamctl/internal/team"
)

func newAssignCmd(a *app) *cobra.Command {
	var (
		taskFile  string
		noRestore bool
	)
	cmd := &cobra.Command{
		Use:   "assign <name>",
		Short: "Hand a task to a team's lead",
		Long: `Send a task to the lead agent of a team, starting the lead first if it is
not running. The task is read from --task-file, or from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAssign(cmd.Context(), args[0], taskFile, noRestore)
		},
	}
	cmd.Flags().StringVarP(&taskFile, "task-file", "f", "", "read the task from this file")
	cmd.Flags().BoolVar(&noRestore, "no-restore", false, "fail instead of reusing a lead that is already running")
	return cmd
}

func (a *app) runAssign(ctx context.Context, name, taskFile string, noRestore bool) error {
	entry, err := a.findUsableTeam(name)
	if err != nil {
		return err
	}

	task, err := a.readTask(taskFile)
	if err != nil {
		return exitf(1, "read task: %w", err)
	}

	d := dispatch.New(a.lifecycle,
		dispatch.WithLookup(a.workDirLookup()),
		dispatch.WithRequireFresh(noRestore),
		dispatch.WithRecorder(a.store),
	)
	res, err := d.Dispatch(ctx, entry.Config, task)
	if err != nil {
		if errs, ok := team.AsConfigErrors(err); ok {
			a.printProblems(a.stderr, errs)
		}
		var de *dispatch.Error
		if errors.As(err, &de) && de.Kind == dispatch.LeadAlreadyRunning {
			fmt.Fprintln(a.stderr, a.styles.Help.Render("run without --no-restore to reuse the running session"))
		}
		return &ExitError{Code: 1, Err: err}
	}

	s := a.styles
	session := "reused running session"
	if res.Started {
		session = "started new session"
	}
	fmt.Fprintf(a.stdout, "%s %s %s\n", s.Running.Render("✓"), "Task assigned to", s.Lead.Render(res.Target))
	fmt.Fprintf(a.stdout, "  %s %s\n", s.Dim.Render("team:      "), entry.Config.Name)
	fmt.Fprintf(a.stdout, "  %s %s\n", s.Dim.Render("session:   "), session)
	fmt.Fprintf(a.stdout, "  %s %s\n", s.Dim.Render("assignment:"), res.AssignmentID)
	return nil
}

// readTask reads the task from path, or from stdin when path is empty or
// "-". On an interactive terminal a hint is printed first.
func (a *app) readTask(path string) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(a.stderr, a.styles.Help.Render("Enter the task, then press Ctrl-D:"))
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
