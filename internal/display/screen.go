package display

// Alignment is the horizontal text alignment inside a region.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Region is a fixed-rectangle text layer attached to a Screen.
type Region struct {
	Name       string
	Frame      Rect
	Font       Font
	Foreground Color
	Background Color
	Alignment  Alignment
	Text       string
}

// NewRegion creates a center-aligned region with a clear background and
// white text.
func NewRegion(name string, frame Rect) *Region {
	return &Region{
		Name:       name,
		Frame:      frame,
		Foreground: ColorWhite,
		Background: ColorClear,
		Alignment:  AlignCenter,
	}
}

// Handlers are invoked when a screen is pushed onto the display and when it
// is destroyed.
type Handlers struct {
	Load   func(*Screen)
	Unload func(*Screen)
}

// Screen is the single root drawing surface. Regions are drawn in the order
// they were added.
type Screen struct {
	bounds     Rect
	background Color
	hidden     bool
	loaded     bool
	dirty      int
	regions    []*Region
	handlers   Handlers
}

// NewScreen creates an unloaded screen covering bounds.
func NewScreen(bounds Rect) *Screen {
	return &Screen{bounds: bounds, background: ColorWhite}
}

// SetHandlers registers the load and unload callbacks.
func (s *Screen) SetHandlers(h Handlers) { s.handlers = h }

// Bounds returns the root layer bounds.
func (s *Screen) Bounds() Rect { return s.bounds }

// Background returns the window background color.
func (s *Screen) Background() Color { return s.background }

// SetBackground sets the window background color.
func (s *Screen) SetBackground(c Color) {
	s.background = c
	s.MarkDirty()
}

// Push shows the screen and runs the load handler once.
func (s *Screen) Push() {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.handlers.Load != nil {
		s.handlers.Load(s)
	}
	s.MarkDirty()
}

// Destroy runs the unload handler if the screen was loaded.
func (s *Screen) Destroy() {
	if !s.loaded {
		return
	}
	if s.handlers.Unload != nil {
		s.handlers.Unload(s)
	}
	s.loaded = false
	s.regions = nil
}

// Loaded reports whether the screen is currently pushed.
func (s *Screen) Loaded() bool { return s.loaded }

// SetHidden hides or shows the root layer.
func (s *Screen) SetHidden(hidden bool) { s.hidden = hidden }

// Hidden reports whether the root layer is hidden.
func (s *Screen) Hidden() bool { return s.hidden }

// MarkDirty requests a redraw.
func (s *Screen) MarkDirty() { s.dirty++ }

// Dirty returns how many redraws have been requested since the last
// ClearDirty.
func (s *Screen) Dirty() int { return s.dirty }

// ClearDirty resets the redraw counter, typically after rendering.
func (s *Screen) ClearDirty() { s.dirty = 0 }

// AddRegion attaches a region to the root layer.
func (s *Screen) AddRegion(r *Region) {
	s.regions = append(s.regions, r)
	s.MarkDirty()
}

// RemoveRegion detaches a region from the root layer.
func (s *Screen) RemoveRegion(r *Region) {
	for i, existing := range s.regions {
		if existing == r {
			s.regions = append(s.regions[:i], s.regions[i+1:]...)
			s.MarkDirty()
			return
		}
	}
}

// Regions returns the attached regions in draw order.
func (s *Screen) Regions() []*Region {
	return s.regions
}
