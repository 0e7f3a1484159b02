package ui

import (
	"strings"
	"testing"

	"github.com/muurk/watchface/internal/display"
)

func newScreen(p display.Platform, bg display.Color, regions ...*display.Region) *display.Screen {
	s := display.NewScreen(p.Bounds)
	s.SetBackground(bg)
	for _, r := range regions {
		s.AddRegion(r)
	}
	return s
}

func countRune(g Grid, r rune) int {
	n := 0
	for _, row := range g {
		for _, c := range row {
			if c.Rune == r && !c.Masked {
				n++
			}
		}
	}
	return n
}

func TestRenderer_Size(t *testing.T) {
	tests := []struct {
		platform display.Platform
		cols     int
		rows     int
	}{
		{display.Basalt, 36, 21},
		{display.Chalk, 45, 22},
		{display.Emery, 50, 28},
	}

	for _, tt := range tests {
		t.Run(tt.platform.Name, func(t *testing.T) {
			cols, rows := NewRenderer(tt.platform).Size()
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("Size() = %dx%d, want %dx%d", cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestRasterize_BlockDigits(t *testing.T) {
	region := display.NewRegion("hour", display.NewRect(0, 0, 144, 168))
	region.Font = display.LoadFont(display.FontTime52)
	region.Text = "88"

	grid := NewRenderer(display.Basalt).Rasterize(newScreen(display.Basalt, display.ColorBlack, region))

	if countRune(grid, blockRune) == 0 {
		t.Fatal("no full block cells drawn")
	}

	// The digits are centered in the region and span the measured width.
	minX, maxX, minY, maxY := len(grid[0]), -1, len(grid), -1
	for y, row := range grid {
		for x, c := range row {
			switch c.Rune {
			case blockRune, halfUpper, halfLower:
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	if width := maxX - minX + 1; width > blockTextWidth("88") {
		t.Errorf("digits span %d columns, want at most %d", width, blockTextWidth("88"))
	}
	if height := maxY - minY + 1; height > blockTextHeight() {
		t.Errorf("digits span %d rows, want at most %d", height, blockTextHeight())
	}
	if left, right := minX, len(grid[0])-1-maxX; left-right > 2 || right-left > 2 {
		t.Errorf("digits not centered: %d columns left, %d right", left, right)
	}
}

func TestHalfBlock(t *testing.T) {
	tests := []struct {
		top, bottom bool
		want        rune
		ok          bool
	}{
		{true, true, blockRune, true},
		{true, false, halfUpper, true},
		{false, true, halfLower, true},
		{false, false, 0, false},
	}
	for _, tt := range tests {
		got, ok := halfBlock(tt.top, tt.bottom)
		if got != tt.want || ok != tt.ok {
			t.Errorf("halfBlock(%v, %v) = %q, %v; want %q, %v", tt.top, tt.bottom, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRasterize_SmallTextCentered(t *testing.T) {
	region := display.NewRegion("calendar", display.NewRect(0, 0, 144, 16))
	region.Font = display.LoadFont(display.FontDate20)
	region.Text = "FRI"

	grid := NewRenderer(display.Basalt).Rasterize(newScreen(display.Basalt, display.ColorBlack, region))

	line := grid.Line(0)
	if idx := strings.Index(line, "FRI"); idx != 16 {
		t.Errorf("FRI at column %d, want 16 (line %q)", idx, line)
	}
	if got := grid[0][16].Foreground; got != display.ColorWhite {
		t.Errorf("text foreground = %v, want white", got)
	}
	if got := grid[0][16].Background; got != display.ColorBlack {
		t.Errorf("text over clear region background = %v, want screen black", got)
	}
}

func TestRasterize_RegionBackground(t *testing.T) {
	region := display.NewRegion("day", display.NewRect(8, 16, 40, 32))
	region.Background = display.ColorRed

	grid := NewRenderer(display.Basalt).Rasterize(newScreen(display.Basalt, display.ColorWhite, region))

	// Pixel frame (8,16)-(48,48) covers columns 2..11 and rows 2..5.
	if got := grid[2][2].Background; got != display.ColorRed {
		t.Errorf("grid[2][2].Background = %v, want red", got)
	}
	if got := grid[5][11].Background; got != display.ColorRed {
		t.Errorf("grid[5][11].Background = %v, want red", got)
	}
	if got := grid[6][2].Background; got != display.ColorWhite {
		t.Errorf("grid[6][2].Background = %v, want white", got)
	}
	if got := grid[2][12].Background; got != display.ColorWhite {
		t.Errorf("grid[2][12].Background = %v, want white", got)
	}
}

func TestRasterize_ClipsOffscreenRegions(t *testing.T) {
	region := display.NewRegion("hour", display.NewRect(100, -20, 144, 72))
	region.Background = display.ColorBlue
	region.Font = display.LoadFont(display.FontTime52)
	region.Text = "12"

	// Must not panic.
	grid := NewRenderer(display.Basalt).Rasterize(newScreen(display.Basalt, display.ColorBlack, region))
	if got := grid[0][35].Background; got != display.ColorBlue {
		t.Errorf("grid[0][35].Background = %v, want blue", got)
	}
}

func TestRasterize_Hidden(t *testing.T) {
	region := display.NewRegion("minute", display.NewRect(0, 0, 144, 168))
	region.Font = display.LoadFont(display.FontTime52)
	region.Text = "30"
	screen := newScreen(display.Basalt, display.ColorBlack, region)
	screen.SetHidden(true)

	grid := NewRenderer(display.Basalt).Rasterize(screen)

	if strings.TrimSpace(strings.ReplaceAll(grid.Text(), "\n", "")) != "" {
		t.Errorf("hidden screen should render blank, got:\n%s", grid.Text())
	}
	if grid[10][10].Background != display.ColorClear {
		t.Error("hidden screen should have no background")
	}
}

func TestRasterize_NilScreen(t *testing.T) {
	grid := NewRenderer(display.Basalt).Rasterize(nil)
	if len(grid) != 21 || len(grid[0]) != 36 {
		t.Errorf("nil screen grid = %dx%d, want 36x21", len(grid[0]), len(grid))
	}
}

func TestRasterize_RoundMask(t *testing.T) {
	grid := NewRenderer(display.Chalk).Rasterize(newScreen(display.Chalk, display.ColorBlue))

	if !grid[0][0].Masked {
		t.Error("corner cell should be masked on a round screen")
	}
	if !grid[21][44].Masked {
		t.Error("opposite corner should be masked on a round screen")
	}
	if grid[11][22].Masked {
		t.Error("centre cell should not be masked")
	}
	if grid[11][22].Background != display.ColorBlue {
		t.Errorf("centre background = %v, want blue", grid[11][22].Background)
	}

	rect := NewRenderer(display.Basalt).Rasterize(newScreen(display.Basalt, display.ColorBlue))
	if rect[0][0].Masked {
		t.Error("rectangular screens are never masked")
	}
}

func TestRender_Bezel(t *testing.T) {
	out := NewRenderer(display.Basalt).Render(newScreen(display.Basalt, display.ColorBlack))
	if !strings.Contains(out, "┏") {
		t.Error("rectangular bezel should use a thick border")
	}

	out = NewRenderer(display.Chalk).Render(newScreen(display.Chalk, display.ColorBlack))
	if !strings.Contains(out, "╭") {
		t.Error("round bezel should use rounded corners")
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 4, 1},
		{8, 4, 2},
		{-1, 4, -1},
		{-4, 4, -1},
		{-5, 4, -2},
		{0, 8, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBlockTextWidth(t *testing.T) {
	if got := blockTextWidth(""); got != 0 {
		t.Errorf("blockTextWidth(\"\") = %d, want 0", got)
	}
	if got := blockTextWidth("12"); got != 14 {
		t.Errorf("blockTextWidth(\"12\") = %d, want 14", got)
	}
	if got := blockTextHeight(); got != 7 {
		t.Errorf("blockTextHeight() = %d, want 7", got)
	}
}
