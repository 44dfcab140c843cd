package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/simonbystrom/teamctl/internal/team"
)

const maxSuggestions = 3

// findTeam looks a team up in the registry. Unknown names fail with exit
// code 1 and suggest close matches; an unreadable teams dir fails with 2.
func (a *app) findTeam(name string) (*team.Entry, error) {
	entry, err := a.registry.Get(name)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, team.ErrNotFound) {
		return nil, &ExitError{Code: 2, Err: err}
	}

	names, _ := a.registry.Names()
	if s := suggest(name, names); len(s) > 0 {
		return nil, exitf(1, "team %q not found in %s (did you mean %s?)", name, a.registry.Root(), strings.Join(s, ", "))
	}
	return nil, exitf(1, "team %q not found in %s", name, a.registry.Root())
}

// findUsableTeam is findTeam for commands that act on a team: the file must
// be free of problems.
func (a *app) findUsableTeam(name string) (*team.Entry, error) {
	entry, err := a.findTeam(name)
	if err != nil {
		return nil, err
	}
	if !entry.Valid() {
		a.printProblems(a.stderr, entry.Problems)
		return nil, exitf(1, "team %q in %s has configuration problems", entry.Name(), entry.Path)
	}
	return entry, nil
}

// suggest returns up to maxSuggestions names fuzzily matching name, best
// first.
func suggest(name string, names []string) []string {
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		// Fall back to a case-insensitive prefix match so "Alp" finds "alpha".
		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(name)) {
				matches = append(matches, fuzzy.Match{Str: n})
			}
		}
	}
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func (a *app) printProblems(w io.Writer, problems team.ConfigErrors) {
	for _, p := range problems {
		fmt.Fprintf(w, "  %s %s\n", a.styles.Warning.Render("!"), p)
	}
}
