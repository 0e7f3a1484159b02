package ui

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Large time fonts are drawn from a bitmap face, one glyph pixel per column
// and two per row using half-block characters.
var largeFace = basicfont.Face7x13

const (
	halfUpper = '▀'
	halfLower = '▄'
)

// glyphMask rasterizes s in the large face. Pixels are lit where the mask is
// at least half opaque.
func glyphMask(s string) *image.Alpha {
	width := font.MeasureString(largeFace, s).Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, width, largeFace.Height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: largeFace,
		Dot:  fixed.P(0, largeFace.Ascent),
	}
	d.DrawString(s)
	return mask
}

func lit(mask *image.Alpha, x, y int) bool {
	if !image.Pt(x, y).In(mask.Rect) {
		return false
	}
	return mask.AlphaAt(x, y).A >= 0x80
}

// blockTextWidth returns the width in columns of s drawn in the large face.
func blockTextWidth(s string) int {
	return font.MeasureString(largeFace, s).Ceil()
}

// blockTextHeight is the number of rows one line of large text occupies.
func blockTextHeight() int {
	return (largeFace.Height + 1) / 2
}

// halfBlock picks the character for a cell covering two vertical pixels.
func halfBlock(top, bottom bool) (rune, bool) {
	switch {
	case top && bottom:
		return blockRune, true
	case top:
		return halfUpper, true
	case bottom:
		return halfLower, true
	default:
		return 0, false
	}
}
