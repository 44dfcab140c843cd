package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/teamctl/internal/config"
	"github.com/simonbystrom/teamctl/internal/monitor"
	"github.com/simonbystrom/teamctl/internal/style"
	"github.com/simonbystrom/teamctl/internal/team"
)

func newTestModel(t *testing.T, feed chan monitor.Line) FollowModel {
	t.Helper()
	cfg := &team.Config{
		Name:      "alpha",
		LeadAgent: "A",
		Members:   []team.Member{{ID: "A"}, {ID: "B"}},
	}
	m := NewFollowModel(cfg, feed, style.New(config.Default().Colors))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return updated.(FollowModel)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestFollowModel_KeyQ_Quits(t *testing.T) {
	m := newTestModel(t, make(chan monitor.Line))

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected a command from 'q' key")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestFollowModel_LinesAreShown(t *testing.T) {
	m := newTestModel(t, make(chan monitor.Line))

	updated, cmd := m.Update(lineMsg{MemberID: "B", Name: "Bob", Text: "compiling"})
	m = updated.(FollowModel)
	if cmd == nil {
		t.Error("expected the model to keep listening for lines")
	}
	view := m.View()
	if !strings.Contains(view, "[Bob]") || !strings.Contains(view, "compiling") {
		t.Errorf("view lacks the line:\n%s", view)
	}
	if !strings.Contains(view, "alpha") {
		t.Error("view lacks the team name")
	}
}

func TestFollowModel_TrimsScrollback(t *testing.T) {
	m := newTestModel(t, make(chan monitor.Line))
	for i := 0; i < maxLines+10; i++ {
		updated, _ := m.Update(lineMsg{MemberID: "A", Name: "Ada", Text: fmt.Sprintf("line %d", i)})
		m = updated.(FollowModel)
	}
	if len(m.lines) != maxLines {
		t.Fatalf("kept %d lines, want %d", len(m.lines), maxLines)
	}
	if !strings.HasSuffix(m.lines[0], "line 10") {
		t.Errorf("oldest kept line = %q", m.lines[0])
	}
}

func TestFollowModel_FollowToggle(t *testing.T) {
	m := newTestModel(t, make(chan monitor.Line))
	if !m.autoscroll {
		t.Fatal("autoscroll should start on")
	}

	updated, _ := m.Update(runeKey('f'))
	m = updated.(FollowModel)
	if m.autoscroll {
		t.Error("f should pause autoscroll")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view should show paused")
	}

	updated, _ = m.Update(runeKey('G'))
	m = updated.(FollowModel)
	if !m.autoscroll {
		t.Error("G should resume autoscroll")
	}

	updated, _ = m.Update(runeKey('g'))
	m = updated.(FollowModel)
	if m.autoscroll {
		t.Error("g should pause autoscroll")
	}
}

func TestFollowModel_FeedClosed(t *testing.T) {
	m := newTestModel(t, make(chan monitor.Line))
	updated, _ := m.Update(feedClosedMsg{})
	m = updated.(FollowModel)
	if !m.closed || !strings.Contains(m.View(), "ended") {
		t.Error("closed feed should be shown as ended")
	}
}

func TestWaitForLine(t *testing.T) {
	feed := make(chan monitor.Line, 1)
	feed <- monitor.Line{MemberID: "A", Text: "hi"}

	if msg, ok := waitForLine(feed)().(lineMsg); !ok || msg.Text != "hi" {
		t.Errorf("got %#v, want lineMsg", msg)
	}
	close(feed)
	if _, ok := waitForLine(feed)().(feedClosedMsg); !ok {
		t.Error("closed feed should produce feedClosedMsg")
	}
}

func TestMemberIndex(t *testing.T) {
	cfg := &team.Config{Members: []team.Member{{ID: "x"}, {ID: "y"}}}
	idx := MemberIndex(cfg)
	if idx["x"] != 0 || idx["y"] != 1 {
		t.Errorf("MemberIndex = %v", idx)
	}
}
