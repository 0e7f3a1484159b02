package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/watchface/internal/discovery"
)

// ScanFunc discovers watches until ctx is done.
type ScanFunc func(ctx context.Context) ([]*discovery.Watch, error)

// Pick is the watch chosen in the picker.
type Pick struct {
	Name     string
	URL      string
	Platform string
}

type scanStartMsg struct{}

type scanCompleteMsg struct {
	watches []*discovery.Watch
	err     error
}

// pickerKeyMap defines key bindings for the watch list
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for manual URL entry
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (m manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

func (m manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// watchItem wraps a discovered watch for bubbles/list
type watchItem struct {
	pick    Pick
	address string
	version string
}

func (w watchItem) FilterValue() string { return w.pick.Name + " " + w.address }

func (w watchItem) Title() string {
	if w.address == "" {
		return "Manual: " + w.pick.URL
	}
	return w.pick.Name
}

func (w watchItem) Description() string {
	if w.address == "" {
		return "entered by hand"
	}
	parts := []string{w.address}
	if w.pick.Platform != "" {
		parts = append(parts, w.pick.Platform)
	}
	if w.version != "" {
		parts = append(parts, "v"+w.version)
	}
	return strings.Join(parts, " • ")
}

func newWatchItem(w *discovery.Watch) watchItem {
	return watchItem{
		pick:    Pick{Name: w.Name, URL: w.SyncURL(), Platform: w.Platform},
		address: fmt.Sprintf("%s:%d", w.IP, w.Port),
		version: w.Version,
	}
}

var (
	pickerTitleStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	pickerMutedStyle = lipgloss.NewStyle().Foreground(MutedColor)
	spinnerStyle     = lipgloss.NewStyle().Foreground(PrimaryColor)
)

// PickerModel scans for watches and lets the user choose one.
type PickerModel struct {
	scan    ScanFunc
	timeout time.Duration
	now     func() time.Time

	scanning  bool
	scanStart time.Time
	err       error
	watches   list.Model

	manual bool
	input  textinput.Model

	chosen *Pick

	width      int
	spinner    spinner.Model
	progress   progress.Model
	help       help.Model
	keys       pickerKeyMap
	manualKeys manualKeyMap
}

// NewPickerModel creates a picker that scans with scan for up to timeout.
func NewPickerModel(scan ScanFunc, timeout time.Duration) *PickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	input := textinput.New()
	input.Placeholder = "ws://192.168.1.20:9301/sync"
	input.CharLimit = 256
	input.Width = 40

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	watches := list.New([]list.Item{}, list.NewDefaultDelegate(), MinTerminalWidth, 12)
	watches.Title = "Watches"
	watches.SetShowStatusBar(false)
	watches.SetShowHelp(false)
	watches.Styles.Title = pickerTitleStyle

	return &PickerModel{
		scan:     scan,
		timeout:  timeout,
		now:      time.Now,
		watches:  watches,
		input:    input,
		spinner:  s,
		progress: bar,
		help:     help.New(),
		keys: pickerKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "select"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter URL"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		manualKeys: manualKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Chosen returns the selected watch, or nil if the user quit.
func (m *PickerModel) Chosen() *Pick {
	return m.chosen
}

// Init implements tea.Model
func (m *PickerModel) Init() tea.Cmd {
	return m.startScan()
}

func (m *PickerModel) startScan() tea.Cmd {
	scan, timeout := m.scan, m.timeout
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			watches, err := scan(ctx)
			return scanCompleteMsg{watches: watches, err: err}
		},
		m.spinner.Tick,
	)
}

// Update implements tea.Model
func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.manual {
			return m.updateManual(msg)
		}
		return m.updateList(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.watches.SetWidth(msg.Width - 4)
		m.watches.SetHeight(max(msg.Height-8, 4))
		return m, nil

	case scanStartMsg:
		m.scanning = true
		m.scanStart = m.now()
		return m, nil

	case scanCompleteMsg:
		m.scanning = false
		m.err = msg.err
		items := make([]list.Item, 0, len(msg.watches))
		for _, w := range msg.watches {
			items = append(items, newWatchItem(w))
		}
		return m, m.watches.SetItems(items)

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *PickerModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Manual):
		m.manual = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case m.scanning:
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.watches.SelectedItem().(watchItem); ok {
			pick := item.pick
			m.chosen = &pick
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Rescan):
		m.err = nil
		return m, tea.Batch(m.watches.SetItems(nil), m.startScan())
	}

	var cmd tea.Cmd
	m.watches, cmd = m.watches.Update(msg)
	return m, cmd
}

func (m *PickerModel) updateManual(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.manualKeys.Cancel):
		m.manual = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.manualKeys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.chosen = &Pick{Name: value, URL: value}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m *PickerModel) View() string {
	if m.chosen != nil {
		return ""
	}

	var content, helpText string
	switch {
	case m.manual:
		content = m.viewManual()
		helpText = m.help.View(m.manualKeys)
	case m.scanning:
		content = m.viewScanning()
		helpText = m.help.View(m.keys)
	default:
		content = m.viewResults()
		helpText = m.help.View(m.keys)
	}
	return content + "\n\n" + pickerMutedStyle.Render("  "+helpText) + "\n"
}

func (m *PickerModel) viewScanning() string {
	elapsed := m.now().Sub(m.scanStart)
	fraction := 1.0
	if m.timeout > 0 {
		fraction = min(1, float64(elapsed)/float64(m.timeout))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		pickerTitleStyle.Render("  "+m.spinner.View()+" Searching for watches..."),
		"",
		"  "+m.progress.ViewAs(fraction),
		"",
		pickerMutedStyle.Render(fmt.Sprintf("  Elapsed: %ds", int(elapsed.Seconds()))),
	)
}

func (m *PickerModel) viewResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(ErrorTitleStyle.Render(fmt.Sprintf("  %s Scan failed: %v", FailureMarker, m.err)))
		b.WriteString("\n\n")
		b.WriteString(m.viewHints())
	case len(m.watches.Items()) == 0:
		b.WriteString(WarningTitleStyle.Render("  " + WarningMarker + " No watches found on your network"))
		b.WriteString("\n\n")
		b.WriteString(m.viewHints())
	default:
		b.WriteString(m.watches.View())
	}
	return b.String()
}

func (m *PickerModel) viewHints() string {
	var b strings.Builder
	b.WriteString("  Troubleshooting:\n")
	for _, hint := range ScanHints {
		b.WriteString("    • " + hint + "\n")
	}
	return b.String()
}

func (m *PickerModel) viewManual() string {
	return "\n" + pickerTitleStyle.Render("  Enter the watch sync URL") +
		"\n\n  URL: " + m.input.View() + "\n"
}

// ScanHints are shown when discovery finds nothing.
var ScanHints = []string{
	"Ensure the watch is running with sync enabled (--port > 0)",
	"Check that mDNS is not blocked by a firewall (UDP 5353)",
	"The watch and this machine must be on the same network",
	"Press 'm' or use --watch to enter the URL by hand",
}

// RunPicker runs the picker full-screen and returns the chosen watch.
func RunPicker(scan ScanFunc, timeout time.Duration) (*Pick, error) {
	m := NewPickerModel(scan, timeout)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return nil, fmt.Errorf("watch picker error: %w", err)
	}
	return m.Chosen(), nil
}
