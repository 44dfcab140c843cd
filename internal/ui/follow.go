// Package ui implements the full-screen follow viewer.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/teamctl/internal/monitor"
	"github.com/simonbystrom/teamctl/internal/style"
	"github.com/simonbystrom/teamctl/internal/team"
)

// maxLines bounds the scrollback kept in memory.
const maxLines = 5000

type lineMsg monitor.Line

type feedClosedMsg struct{}

// RenderLine formats an attributed line as "[name] text", colored by the
// member's position in the team.
func RenderLine(s style.Styles, index int, l monitor.Line) string {
	return s.Member(index).Render("["+l.Name+"]") + " " + l.Text
}

// MemberIndex maps member ids to their declared position.
func MemberIndex(cfg *team.Config) map[string]int {
	idx := make(map[string]int, len(cfg.Members))
	for i, m := range cfg.Members {
		idx[m.ID] = i
	}
	return idx
}

// FollowModel shows followed team output in a scrollable viewport.
type FollowModel struct {
	team   string
	feed   <-chan monitor.Line
	styles style.Styles
	index  map[string]int

	keys     keyMap
	help     help.Model
	viewport viewport.Model

	lines      []string
	autoscroll bool
	closed     bool
	width      int
	height     int
}

func NewFollowModel(cfg *team.Config, feed <-chan monitor.Line, s style.Styles) FollowModel {
	return FollowModel{
		team:       cfg.Name,
		feed:       feed,
		styles:     s,
		index:      MemberIndex(cfg),
		keys:       defaultKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m FollowModel) Init() tea.Cmd {
	return tea.Batch(
		waitForLine(m.feed),
		tea.SetWindowTitle("teamctl: "+m.team),
	)
}

// waitForLine reads the next line off the feed. The feed is closed by the
// monitor once it has shut down.
func waitForLine(feed <-chan monitor.Line) tea.Cmd {
	return func() tea.Msg {
		l, ok := <-feed
		if !ok {
			return feedClosedMsg{}
		}
		return lineMsg(l)
	}
}

func (m FollowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1) // header and help
		m.refresh()
		return m, nil

	case lineMsg:
		m.append(monitor.Line(msg))
		return m, waitForLine(m.feed)

	case feedClosedMsg:
		m.closed = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Follow):
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.viewport.GotoBottom()
			}
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.autoscroll = false
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.autoscroll = true
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *FollowModel) append(l monitor.Line) {
	idx, ok := m.index[l.MemberID]
	if !ok {
		idx = -1
	}
	m.lines = append(m.lines, RenderLine(m.styles, idx, l))
	if over := len(m.lines) - maxLines; over > 0 {
		m.lines = append(m.lines[:0:0], m.lines[over:]...)
	}
	m.refresh()
}

func (m *FollowModel) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.autoscroll {
		m.viewport.GotoBottom()
	}
}

func (m FollowModel) View() string {
	status := m.styles.Running.Render("following")
	switch {
	case m.closed:
		status = m.styles.Stopped.Render("ended")
	case !m.autoscroll:
		status = m.styles.Waiting.Render("paused")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("teamctl monitor: "+m.team),
		"  ",
		status,
		m.styles.Dim.Render(fmt.Sprintf("  %d lines", len(m.lines))),
	)
	return header + "\n" + m.viewport.View() + "\n" + m.help.View(m.keys)
}
