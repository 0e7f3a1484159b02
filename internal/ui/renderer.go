package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/watchface/internal/display"
)

// Terminal cells are roughly twice as tall as they are wide.
const (
	PixelsPerColumn = 4
	PixelsPerRow    = 8
)

const blockRune = '█'

// Cell is one character of the rasterised screen.
type Cell struct {
	Rune       rune
	Foreground display.Color
	Background display.Color
	Masked     bool // outside a round display
}

// Grid is a rasterised screen, indexed [row][column].
type Grid [][]Cell

// Text returns the grid's characters with masked and empty cells as spaces.
func (g Grid) Text() string {
	lines := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		for _, c := range row {
			if c.Masked || c.Rune == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(c.Rune)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Line returns one row of Text, or "" when out of range.
func (g Grid) Line(y int) string {
	if y < 0 || y >= len(g) {
		return ""
	}
	return strings.Split(g.Text(), "\n")[y]
}

// Renderer draws a display.Screen in the terminal.
type Renderer struct {
	platform display.Platform
	cols     int
	rows     int
}

// NewRenderer creates a renderer sized for the platform's screen.
func NewRenderer(p display.Platform) *Renderer {
	return &Renderer{
		platform: p,
		cols:     p.Bounds.Size.W / PixelsPerColumn,
		rows:     p.Bounds.Size.H / PixelsPerRow,
	}
}

// Size returns the grid dimensions in columns and rows.
func (r *Renderer) Size() (cols, rows int) {
	return r.cols, r.rows
}

// Rasterize converts the screen into a character grid. A nil or hidden
// screen produces a blank grid.
func (r *Renderer) Rasterize(s *display.Screen) Grid {
	grid := make(Grid, r.rows)
	for y := range grid {
		grid[y] = make([]Cell, r.cols)
	}

	if s != nil && !s.Hidden() {
		r.fill(grid, 0, 0, r.cols, r.rows, s.Background())
		for _, region := range s.Regions() {
			r.drawRegion(grid, region)
		}
	}

	if r.platform.Round() {
		r.maskRound(grid)
	}
	return grid
}

// Render rasterises the screen and frames it in a bezel.
func (r *Renderer) Render(s *display.Screen) string {
	grid := r.Rasterize(s)

	lines := make([]string, len(grid))
	for y, row := range grid {
		lines[y] = renderRow(row)
	}
	return BezelStyle(r.platform).Render(strings.Join(lines, "\n"))
}

func (r *Renderer) fill(grid Grid, x0, y0, x1, y1 int, bg display.Color) {
	if bg.IsClear() {
		return
	}
	x0, y0, x1, y1 = r.clip(x0, y0, x1, y1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			grid[y][x] = Cell{Rune: ' ', Background: bg}
		}
	}
}

func (r *Renderer) clip(x0, y0, x1, y1 int) (int, int, int, int) {
	return max(x0, 0), max(y0, 0), min(x1, r.cols), min(y1, r.rows)
}

// cellRect converts a pixel frame into grid coordinates.
func cellRect(frame display.Rect) (x0, y0, x1, y1 int) {
	end := frame.Max()
	return floorDiv(frame.Origin.X, PixelsPerColumn),
		floorDiv(frame.Origin.Y, PixelsPerRow),
		floorDiv(end.X, PixelsPerColumn),
		floorDiv(end.Y, PixelsPerRow)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (r *Renderer) drawRegion(grid Grid, region *display.Region) {
	x0, y0, x1, y1 := cellRect(region.Frame)
	r.fill(grid, x0, y0, x1, y1, region.Background)
	if region.Text == "" {
		return
	}

	if region.Font.Large() {
		r.drawBlockText(grid, region, x0, y0, x1, y1)
		return
	}

	text := []rune(region.Text)
	x := alignedStart(region.Alignment, x0, x1, len(text))
	y := y0 + (y1-y0-1)/2
	for i, ch := range text {
		r.set(grid, x+i, y, ch, region)
	}
}

func (r *Renderer) drawBlockText(grid Grid, region *display.Region, x0, y0, x1, y1 int) {
	mask := glyphMask(region.Text)
	width, height := mask.Rect.Dx(), blockTextHeight()
	x := alignedStart(region.Alignment, x0, x1, width)
	top := y0 + (y1-y0-height)/2

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch, ok := halfBlock(lit(mask, col, 2*row), lit(mask, col, 2*row+1))
			if ok {
				r.set(grid, x+col, top+row, ch, region)
			}
		}
	}
}

func alignedStart(a display.Alignment, x0, x1, width int) int {
	switch a {
	case display.AlignLeft:
		return x0
	case display.AlignRight:
		return x1 - width
	default:
		return x0 + (x1-x0-width)/2
	}
}

// set draws one character, keeping whatever background is underneath when
// the region's is clear.
func (r *Renderer) set(grid Grid, x, y int, ch rune, region *display.Region) {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows {
		return
	}
	cell := grid[y][x]
	cell.Rune = ch
	cell.Foreground = region.Foreground
	if !region.Background.IsClear() {
		cell.Background = region.Background
	}
	grid[y][x] = cell
}

// maskRound blanks cells whose centre lies outside the inscribed circle.
func (r *Renderer) maskRound(grid Grid) {
	w := float64(r.cols * PixelsPerColumn)
	h := float64(r.rows * PixelsPerRow)
	cx, cy := w/2, h/2
	radius := min(w, h) / 2

	for y := range grid {
		for x := range grid[y] {
			px := (float64(x)+0.5)*PixelsPerColumn - cx
			py := (float64(y)+0.5)*PixelsPerRow - cy
			if px*px+py*py > radius*radius {
				grid[y][x] = Cell{Masked: true}
			}
		}
	}
}

// renderRow styles runs of identically coloured cells.
func renderRow(row []Cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && sameStyle(row[i], row[start]) {
			continue
		}
		var run strings.Builder
		for _, c := range row[start:i] {
			if c.Masked || c.Rune == 0 {
				run.WriteRune(' ')
			} else {
				run.WriteRune(c.Rune)
			}
		}
		b.WriteString(cellStyle(row[start]).Render(run.String()))
		start = i
	}
	return b.String()
}

func sameStyle(a, b Cell) bool {
	if a.Masked || b.Masked {
		return a.Masked == b.Masked
	}
	return a.Foreground == b.Foreground && a.Background == b.Background
}

func cellStyle(c Cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.Masked {
		return style
	}
	if !c.Foreground.IsClear() {
		style = style.Foreground(lipgloss.Color(c.Foreground.Hex()))
	}
	if !c.Background.IsClear() {
		style = style.Background(lipgloss.Color(c.Background.Hex()))
	}
	return style
}
