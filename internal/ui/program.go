package ui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// frameModel shows a single pre-rendered frame and quits.
type frameModel string

func (m frameModel) Init() tea.Cmd                       { return tea.Quit }
func (m frameModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }
func (m frameModel) View() string                        { return string(m) }

// RenderOnce draws frame through Bubble Tea's renderer without reading
// input, so a watchface preview looks exactly like the running watch.
func RenderOnce(frame string, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	_, err := tea.NewProgram(frameModel(frame), tea.WithOutput(out), tea.WithInput(nil)).Run()
	return err
}

// Printer writes header and result boxes sized to the terminal.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter returns a Printer for w, or for stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Println writes one line of plain text.
func (p *Printer) Println(line string) {
	_, _ = fmt.Fprintln(p.out, line)
}

// PrintHeader prints the command header box.
func (p *Printer) PrintHeader(h *Header) {
	p.Println(h.SetWidth(p.width).Render())
}

// PrintResult prints a result box.
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintError prints a failure box with troubleshooting hints.
func (p *Printer) PrintError(title string, err error, hints []string) {
	p.PrintResult(NewFailureResult(title, err, hints))
}
