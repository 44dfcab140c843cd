package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonbystrom/teamctl/internal/member"
	"github.com/simonbystrom/teamctl/internal/team"
)

type listMember struct {
	ID   string `json:"employee_id"`
	Role string `json:"role,omitempty"`
}

type listLead struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type listItem struct {
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Enabled          bool         `json:"enabled"`
	Lead             listLead     `json:"lead"`
	WorkingDirectory string       `json:"working_directory,omitempty"`
	Members          []listMember `json:"members"`
	File             string       `json:"file"`
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print teams as JSON")
	return cmd
}

func (a *app) runList(ctx context.Context, asJSON bool) error {
	entries, err := a.registry.List()
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	resolver := member.NewResolver(a.lifecycle)
	var items []listItem
	for _, e := range entries {
		if e.Config == nil || len(e.Problems) > 0 {
			fmt.Fprintf(a.stderr, "%s skipping %s:\n", a.styles.Warning.Render("warning:"), e.Path)
			a.printProblems(a.stderr, e.Problems)
			continue
		}
		items = append(items, toListItem(ctx, resolver, e))
	}

	if asJSON {
		if items == nil {
			items = []listItem{}
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Fprintf(a.stdout, "No teams found in %s\n", a.registry.Root())
		return nil
	}
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		a.printListItem(it)
	}
	return nil
}

func toListItem(ctx context.Context, r *member.Resolver, e *team.Entry) listItem {
	cfg := e.Config
	it := listItem{
		Name:             cfg.Name,
		Description:      cfg.Description,
		Enabled:          cfg.IsEnabled(),
		Lead:             listLead{ID: cfg.LeadAgent},
		WorkingDirectory: cfg.WorkingDirectory,
		File:             e.Path,
	}
	if res, err := r.Resolve(ctx, cfg.LeadAgent); err == nil {
		it.Lead.Name = res.Name
	}
	for _, m := range cfg.Members {
		it.Members = append(it.Members, listMember{ID: m.ID, Role: m.Role})
	}
	return it
}

func (a *app) printListItem(it listItem) {
	s := a.styles
	title := s.Title.Render(it.Name)
	if !it.Enabled {
		title += " " + s.Stopped.Render("(disabled)")
	}
	fmt.Fprintln(a.stdout, title)
	if it.Description != "" {
		fmt.Fprintf(a.stdout, "  %s\n", it.Description)
	}

	lead := it.Lead.ID
	if it.Lead.Name != "" {
		lead = fmt.Sprintf("%s (%s)", it.Lead.ID, it.Lead.Name)
	}
	fmt.Fprintf(a.stdout, "  %s %s\n", s.Dim.Render("lead:   "), s.Lead.Render(lead))
	if it.WorkingDirectory != "" {
		fmt.Fprintf(a.stdout, "  %s %s\n", s.Dim.Render("workdir:"), it.WorkingDirectory)
	}

	members := make([]string, len(it.Members))
	for i, m := range it.Members {
		role := m.Role
		if role == "" {
			role = "member"
		}
		members[i] = fmt.Sprintf("%s (%s)", m.ID, role)
	}
	fmt.Fprintf(a.stdout, "  %s %s\n", s.Dim.Render("members:"), strings.Join(members, ", "))
}
