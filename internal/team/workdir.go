package team

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// UnresolvedVariableError is returned when a working directory references
// an environment variable that is not set.
type UnresolvedVariableError struct {
	Names []string // in order of first appearance
}

func (e *UnresolvedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("working directory references unset variable $%s", e.Names[0])
	}
	return fmt.Sprintf("working directory references unset variables $%s", strings.Join(e.Names, ", $"))
}

// Name returns the first unresolved variable.
func (e *UnresolvedVariableError) Name() string {
	if len(e.Names) == 0 {
		return ""
	}
	return e.Names[0]
}

// ExpandWorkingDir substitutes $VAR and ${VAR} references in raw using
// lookup. Any reference lookup cannot satisfy fails the whole expansion
// instead of collapsing to an empty string.
func ExpandWorkingDir(raw string, lookup func(string) (string, bool)) (string, error) {
	if raw == "" {
		return "", nil
	}
	var missing []string
	out := os.Expand(raw, func(name string) string {
		if v, ok := lookup(name); ok {
			return v
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return ""
	})
	if len(missing) > 0 {
		return "", &UnresolvedVariableError{Names: missing}
	}
	return out, nil
}

// EnvLookup returns a lookup that consults the process environment first
// and then fallbacks. Callers use fallbacks for values such as REPO_ROOT
// that can be derived when the variable itself is unset.
func EnvLookup(fallbacks map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := fallbacks[name]
		return v, ok
	}
}
