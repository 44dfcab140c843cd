package tmux

import "strings"

// PatternRule defines a single pattern for classifying pane content.
type PatternRule struct {
	Contains     string // Required substring
	Suffix       string // Optional: line must also end with this
	RequiresAlso string // Optional: joined bottom content must also contain this
}

// PanePatterns defines the string patterns used to classify what an agent
// pane is doing.
type PanePatterns struct {
	// WorkingIndicators win over everything else.
	WorkingIndicators []PatternRule
	// PermissionPatterns indicate the agent is blocked on a prompt.
	PermissionPatterns []PatternRule
	// InputPatterns indicate the agent is idle at its input prompt.
	InputPatterns []PatternRule
}

// Pane states returned by Classify.
const (
	PaneWorking    = ""
	PanePermission = "permission"
	PaneInput      = "input"
)

// DefaultPatterns matches the Claude Code terminal UI, the default launcher.
var DefaultPatterns = PanePatterns{
	WorkingIndicators: []PatternRule{
		{Contains: "Running", Suffix: "…"},
		{Contains: "esc to interrupt"},
	},
	PermissionPatterns: []PatternRule{
		{Contains: "Do you want to proceed?"},
		{Contains: "Yes", RequiresAlso: "No"},
		{Contains: "Allow", RequiresAlso: "Deny"},
		{Contains: "allow for"},
		{Contains: "Always allow"},
		{Contains: "Chat about this"},
	},
	InputPatterns: []PatternRule{
		{Contains: "for shortcuts"},
		{Contains: "❯"},
	},
}

const bottomLines = 20

// Classify inspects the bottom of a pane capture using DefaultPatterns.
func Classify(content string) string {
	return DefaultPatterns.Classify(content)
}

// Classify returns PanePermission, PaneInput or PaneWorking for the last
// non-empty lines of content.
func (p PanePatterns) Classify(content string) string {
	lines := strings.Split(content, "\n")
	var bottom []string
	for i := len(lines) - 1; i >= 0 && len(bottom) < bottomLines; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			bottom = append(bottom, trimmed)
		}
	}
	if len(bottom) == 0 {
		return PaneWorking
	}
	joined := strings.Join(bottom, "\n")

	switch {
	case anyMatch(p.WorkingIndicators, bottom, joined):
		return PaneWorking
	case anyMatch(p.PermissionPatterns, bottom, joined):
		return PanePermission
	case anyMatch(p.InputPatterns, bottom, joined):
		return PaneInput
	}
	return PaneWorking
}

func anyMatch(rules []PatternRule, lines []string, joined string) bool {
	for _, r := range rules {
		if r.RequiresAlso != "" && !strings.Contains(joined, r.RequiresAlso) {
			continue
		}
		for _, line := range lines {
			if strings.Contains(line, r.Contains) && strings.HasSuffix(line, r.Suffix) {
				return true
			}
		}
	}
	return false
}
