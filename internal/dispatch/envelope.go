package dispatch

import (
	"fmt"
	"strings"

	"github.com/simonbystrom/teamctl/internal/member"
	"github.com/simonbystrom/teamctl/internal/team"
)

// Envelope is everything delivered to the lead for one assignment.
type Envelope struct {
	ID               string
	Task             string
	Team             team.Config
	Target           string
	Lead             member.Resolved
	Members          []member.Status
	WorkingDirectory string
}

const closingLine = "Please coordinate this task with your team and report back when complete."

// Render builds the payload: the task first, then the team membership,
// then the team's workflow body exactly as written, then a closing line.
func (e *Envelope) Render() string {
	var b strings.Builder

	b.WriteString(strings.TrimRight(e.Task, "\n"))
	b.WriteString("\n\n")

	b.WriteString("## Team Context\n\n")
	fmt.Fprintf(&b, "You are the lead agent of the %s team.\n", e.Team.Name)
	fmt.Fprintf(&b, "- Lead: %s (%s)\n", e.Lead.ID, displayName(e.Lead.Name, e.Lead.ID))
	wd := e.WorkingDirectory
	if wd == "" {
		wd = "agent default"
	}
	fmt.Fprintf(&b, "- Working directory: %s\n", wd)
	fmt.Fprintf(&b, "- Assignment: %s\n", e.ID)
	b.WriteString("\nMembers:\n")
	for _, m := range e.Members {
		mark := ""
		if m.IsLead {
			mark = " (lead)"
		}
		fmt.Fprintf(&b, "  - %s (%s) - %s%s\n", m.ID, displayName(m.DisplayName, m.ID), m.Role, mark)
	}

	if e.Team.Body != "" {
		b.WriteString("\n## Team Workflow\n\n")
		b.WriteString(e.Team.Body)
		if !strings.HasSuffix(e.Team.Body, "\n") {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n---\n")
	b.WriteString(closingLine)
	return b.String()
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
