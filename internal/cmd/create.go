package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonbystrom/teamctl/internal/team"
)

type createOptions struct {
	lead        string
	members     []string
	description string
	bodyFile    string
	force       bool
}

func newCreateCmd(a *app) *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create <name> [member...]",
		Short: "Create a team file",
		Long: `Create a team file named after the team. Members are given with --members,
either comma separated or by repeating the flag. Ids following the flag
(or the team name) are members too, so "--members B C" lists both.`,
		Example: `  teamctl create backend --lead EMP_0001 --members EMP_0002,EMP_0003
  teamctl create backend --lead EMP_0001 --members EMP_0002 EMP_0003
  teamctl create backend --lead EMP_0001 --members EMP_0002 --body-file workflow.md --force`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.members = append(opts.members, args[1:]...)
			return a.runCreate(args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.lead, "lead", "", "lead agent id")
	cmd.Flags().StringSliceVar(&opts.members, "members", nil, "member agent ids")
	cmd.Flags().StringVar(&opts.description, "description", "", "short description")
	cmd.Flags().StringVar(&opts.bodyFile, "body-file", "", "file holding the workflow body")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing team file")
	_ = cmd.MarkFlagRequired("lead")
	return cmd
}

// buildTeam assembles a config from the create flags. The lead is added to
// the members, with role "lead", when it is not listed.
func buildTeam(name string, opts createOptions) *team.Config {
	cfg := &team.Config{
		Name:        name,
		Description: opts.description,
		LeadAgent:   opts.lead,
	}
	if opts.lead != "" {
		listed := false
		for _, id := range opts.members {
			if id == opts.lead {
				listed = true
				break
			}
		}
		if !listed {
			cfg.Members = append(cfg.Members, team.Member{ID: opts.lead, Role: "lead"})
		}
	}
	for _, id := range opts.members {
		if id == "" {
			continue
		}
		cfg.Members = append(cfg.Members, team.Member{ID: id})
	}
	return cfg
}

func defaultBody(name string) string {
	return fmt.Sprintf("\n# %s\n\nDescribe how the team works together here.\n", name)
}

func (a *app) runCreate(name string, opts createOptions) error {
	cfg := buildTeam(name, opts)
	cfg.Body = defaultBody(name)
	if opts.bodyFile != "" {
		data, err := os.ReadFile(opts.bodyFile)
		if err != nil {
			return exitf(1, "read body: %w", err)
		}
		cfg.Body = string(data)
	}

	path, err := a.registry.Create(cfg, opts.force)
	switch {
	case errors.Is(err, team.ErrAlreadyExists):
		return exitf(1, "team %s already exists at %s (use --force to overwrite)", name, path)
	case err != nil:
		if errs, ok := team.AsConfigErrors(err); ok {
			a.printProblems(a.stderr, errs)
			return exitf(1, "team %s is not valid", name)
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(a.stdout, "%s Created team %s at %s\n", a.styles.Running.Render("✓"), a.styles.Title.Render(name), path)
	return nil
}
