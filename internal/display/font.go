package display

// FontID names a bundled font resource.
type FontID string

// Bundled font resources. The number is the nominal pixel height.
const (
	FontTime64 FontID = "TIME_64"
	FontTime52 FontID = "TIME_52"
	FontDate32 FontID = "DATE_32"
	FontDate28 FontID = "DATE_28"
	FontDate20 FontID = "DATE_20"
	FontDate18 FontID = "DATE_18"
)

var fontHeights = map[FontID]int{
	FontTime64: 64,
	FontTime52: 52,
	FontDate32: 32,
	FontDate28: 28,
	FontDate20: 20,
	FontDate18: 18,
}

// Font is a loaded font resource.
type Font struct {
	ID     FontID
	Height int
}

// LoadFont resolves a bundled font resource. Unknown IDs get a zero height,
// which renderers treat as their smallest face.
func LoadFont(id FontID) Font {
	return Font{ID: id, Height: fontHeights[id]}
}

// Large reports whether the font is one of the numeric time faces.
func (f Font) Large() bool {
	return f.Height >= 48
}
