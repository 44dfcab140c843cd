package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a team's configuration and workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(args[0])
		},
	}
}

func (a *app) runShow(name string) error {
	entry, err := a.findTeam(name)
	if err != nil {
		return err
	}
	s := a.styles
	out := a.stdout

	fmt.Fprintf(out, "%s %s\n", s.Title.Render(entry.Name()), s.Dim.Render(entry.Path))
	if cfg := entry.Config; cfg != nil {
		field := func(label, value string) {
			if value != "" {
				fmt.Fprintf(out, "  %s %s\n", s.Dim.Render(fmt.Sprintf("%-12s", label+":")), value)
			}
		}
		field("description", cfg.Description)
		enabled := "yes"
		if !cfg.IsEnabled() {
			enabled = s.Stopped.Render("no")
		}
		field("enabled", enabled)
		field("lead", s.Lead.Render(cfg.LeadAgent))
		field("workdir", cfg.WorkingDirectory)

		fmt.Fprintf(out, "  %s\n", s.Dim.Render("members:"))
		for _, m := range cfg.Members {
			line := fmt.Sprintf("    - %s (%s)", m.ID, m.DisplayRole())
			if cfg.IsLead(m.ID) {
				line += " " + s.Lead.Render("lead")
			}
			fmt.Fprintln(out, line)
		}
	}

	if len(entry.Problems) > 0 {
		fmt.Fprintf(out, "\n%s\n", s.Warning.Render("Problems:"))
		a.printProblems(out, entry.Problems)
	}

	if entry.Config != nil && entry.Config.Body != "" {
		fmt.Fprintf(out, "\n%s\n", s.Header.Render("Workflow"))
		fmt.Fprint(out, entry.Config.Body)
	}
	return nil
}
