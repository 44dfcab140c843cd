package style

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/teamctl/internal/agent"
	"github.com/simonbystrom/teamctl/internal/config"
)

func TestMember_CyclesPalette(t *testing.T) {
	c := config.Default().Colors
	c.Members = []string{"#111111", "#222222"}
	s := New(c)

	tests := []struct {
		i    int
		want lipgloss.TerminalColor
	}{
		{0, lipgloss.Color("#111111")},
		{1, lipgloss.Color("#222222")},
		{2, lipgloss.Color("#111111")},
		{5, lipgloss.Color("#222222")},
	}
	for _, tt := range tests {
		if got := s.Member(tt.i).GetForeground(); got != tt.want {
			t.Errorf("Member(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestMember_EmptyPalette(t *testing.T) {
	c := config.Default().Colors
	c.Members = nil
	s := New(c)
	if got := s.Member(3).GetForeground(); got != lipgloss.Color(c.Header) {
		t.Errorf("Member = %v, want header color", got)
	}
}

func TestState(t *testing.T) {
	c := config.Default().Colors
	s := New(c)

	tests := []struct {
		name    string
		running bool
		state   string
		want    string
	}{
		{"stopped", false, agent.StateWorking, c.Stopped},
		{"permission", true, agent.StatePermission, c.Permission},
		{"idle", true, agent.StateIdle, c.Waiting},
		{"working", true, agent.StateWorking, c.Running},
		{"unknown", true, "", c.Running},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.State(tt.running, tt.state).GetForeground(); got != lipgloss.Color(tt.want) {
				t.Errorf("State = %v, want %s", got, tt.want)
			}
		})
	}
}
