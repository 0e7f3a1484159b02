package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/watchface/internal/face"
	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// FocusSettle is how long a focus transition takes to complete.
const FocusSettle = 300 * time.Millisecond

// pulseVisible is how long the vibration marker stays on screen.
const pulseVisible = time.Second

type focusSettledMsg struct{ focused bool }

type redrawMsg struct{}

// watchKeyMap defines key bindings for the watch screen
type watchKeyMap struct {
	Focus key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus},
		{k.Help, k.Quit},
	}
}

func newWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "simulate notification"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// WatchModel hosts a watchface App as a Bubble Tea program. Every App
// callback runs inside Update.
type WatchModel struct {
	app      *face.App
	renderer *Renderer
	vibrator *BellVibrator
	keys     watchKeyMap
	help     help.Model
	status   string
	now      func() time.Time
	quitting bool
	err      error
}

// NewWatchModel creates a model for an initialised App. vibrator may be nil.
func NewWatchModel(app *face.App, vibrator *BellVibrator) *WatchModel {
	return &WatchModel{
		app:      app,
		renderer: NewRenderer(app.Platform()),
		vibrator: vibrator,
		keys:     newWatchKeyMap(),
		help:     help.New(),
		now:      time.Now,
	}
}

// SetStatus sets the line shown under the watch.
func (m *WatchModel) SetStatus(s string) {
	m.status = s
}

// Err returns the error that stopped the App, if any.
func (m *WatchModel) Err() error {
	return m.err
}

// Init implements tea.Model
func (m *WatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DispatchMsg:
		msg()
		return m, m.pulseCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Focus):
			// An overlay appears and is dismissed.
			m.blur()
			return m, m.focus()
		}

	case tea.BlurMsg:
		m.blur()

	case tea.FocusMsg:
		return m, m.focus()

	case focusSettledMsg:
		m.app.Focus().DidFocus(msg.focused)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	return m, nil
}

func (m *WatchModel) blur() {
	logging.Debug("Focus lost")
	m.app.Focus().WillFocus(false)
	m.app.Focus().DidFocus(false)
}

func (m *WatchModel) focus() tea.Cmd {
	logging.Debug("Focus regained")
	m.app.Focus().WillFocus(true)
	return tea.Tick(FocusSettle, func(time.Time) tea.Msg {
		return focusSettledMsg{focused: true}
	})
}

// pulseCmd schedules a redraw to clear the vibration marker.
func (m *WatchModel) pulseCmd() tea.Cmd {
	if m.vibrator == nil {
		return nil
	}
	if since, ok := m.vibrator.Since(m.now()); ok && since < pulseVisible {
		return tea.Tick(pulseVisible-since, func(time.Time) tea.Msg { return redrawMsg{} })
	}
	return nil
}

func (m *WatchModel) quit() tea.Cmd {
	m.quitting = true
	if err := m.app.Deinit(); err != nil {
		logging.Error("Failed to deinit watchface", zap.Error(err))
		m.err = err
	}
	return tea.Quit
}

// View implements tea.Model
func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderer.Render(m.app.Screen()))
	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(1).Render(m.help.View(m.keys)))
	return b.String()
}

func (m *WatchModel) statusLine() string {
	parts := []string{m.app.Platform().Name, m.app.State().String()}
	if m.vibrator != nil {
		if since, ok := m.vibrator.Since(m.now()); ok && since < pulseVisible {
			parts = append(parts, "~ bzz ~")
		}
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}
