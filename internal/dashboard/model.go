// Package dashboard is the interactive terminal view of one client's record.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/lexcura/internal/render"
	"github.com/joshsymonds/lexcura/internal/resolver"
)

const historySize = 5

// Resolver is the part of the resolver the dashboard drives.
type Resolver interface {
	ResolveDetailed(ctx context.Context, clientID string) resolver.Resolution
	Refresh()
}

// Entry records one completed resolution for the history pane.
type Entry struct {
	At     time.Time
	Source resolver.Source
	Reason resolver.Reason
	Cached bool
}

// ResolvedMsg carries a finished resolution back into the update loop.
type ResolvedMsg struct {
	Resolution resolver.Resolution
}

var (
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	liveIcon     = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("●")
	fallbackIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render("●")
)

// Model is the dashboard state.
type Model struct {
	ctx      context.Context
	resolver Resolver
	history  *RingBuffer[Entry]
	now      func() time.Time
	current  resolver.Resolution
	clientID string
	width    int
	loaded   bool
	loading  bool
	quitting bool
}

// New creates a dashboard for clientID.
func New(ctx context.Context, r Resolver, clientID string) Model {
	return Model{
		ctx:      ctx,
		resolver: r,
		clientID: clientID,
		history:  NewRingBuffer[Entry](historySize),
		now:      time.Now,
		loading:  true,
	}
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, r Resolver, clientID string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, r, clientID), opts...).Run()
	return err
}

// Init loads the record.
func (m Model) Init() tea.Cmd {
	return m.resolveCmd(false)
}

func (m Model) resolveCmd(refresh bool) tea.Cmd {
	return func() tea.Msg {
		if refresh {
			m.resolver.Refresh()
		}
		return ResolvedMsg{Resolution: m.resolver.ResolveDetailed(m.ctx, m.clientID)}
	}
}

// Update handles keys, window size and finished resolutions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r", "R":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.resolveCmd(true)
		}

	case ResolvedMsg:
		m.current = msg.Resolution
		m.loaded = true
		m.loading = false
		m.history.Add(Entry{
			At:     m.now(),
			Source: msg.Resolution.Source,
			Reason: msg.Resolution.Reason,
			Cached: msg.Resolution.Cached,
		})
	}
	return m, nil
}

// View renders the card, recent resolutions and key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.loaded {
		return "Loading compliance intelligence..."
	}

	sections := []string{render.Card(m.current, m.width)}
	if m.history.Len() > 0 {
		sections = append(sections, m.renderHistory())
	}

	help := "r refresh • q quit"
	if m.loading {
		help = "refreshing... • q quit"
	}
	sections = append(sections, helpStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHistory() string {
	var b strings.Builder
	for _, e := range m.history.Items() {
		icon := liveIcon
		if e.Source != resolver.SourceLive {
			icon = fallbackIcon
		}
		line := fmt.Sprintf("%s %s %s", icon, e.At.Format("15:04:05"), e.Source)
		if e.Reason != resolver.ReasonNone {
			line += " (" + string(e.Reason) + ")"
		}
		if e.Cached {
			line += " cached"
		}
		b.WriteString(historyStyle.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
