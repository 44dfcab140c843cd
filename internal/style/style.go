// Package style holds the lipgloss styles used for terminal output.
package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/teamctl/internal/agent"
	"github.com/simonbystrom/teamctl/internal/config"
)

type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Running    lipgloss.Style
	Stopped    lipgloss.Style
	Waiting    lipgloss.Style
	Permission lipgloss.Style
	Lead       lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
	Dim        lipgloss.Style

	members []lipgloss.Style
}

// New builds the styles from the configured colors.
func New(c config.Colors) Styles {
	s := Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Title)),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Header)),

		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Running)),

		Stopped: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Stopped)),

		Waiting: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Waiting)).
			Bold(true),

		Permission: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Permission)).
			Bold(true),

		Lead: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Lead)).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Warning)),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Help)),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)).
			Padding(0, 1),

		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Dim)),
	}
	for _, col := range c.Members {
		s.members = append(s.members, lipgloss.NewStyle().Foreground(lipgloss.Color(col)).Bold(true))
	}
	return s
}

// Member returns the style for the i-th member of a team. The palette is
// reused once it runs out; with no palette every member shares Header.
func (s Styles) Member(i int) lipgloss.Style {
	if len(s.members) == 0 || i < 0 {
		return s.Header
	}
	return s.members[i%len(s.members)]
}

// State returns the style for a member's runtime state.
func (s Styles) State(running bool, state string) lipgloss.Style {
	if !running {
		return s.Stopped
	}
	switch state {
	case agent.StatePermission:
		return s.Permission
	case agent.StateIdle:
		return s.Waiting
	default:
		return s.Running
	}
}
