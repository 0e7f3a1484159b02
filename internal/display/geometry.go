// Package display is the watch's drawing model: platforms, colors, a root
// screen with text regions, and the composer that lays out and refreshes the
// time and calendar fields. Nothing here touches a terminal; the ui package
// rasterizes a Screen for output.
package display

import "fmt"

// Point is a pixel coordinate on the watch screen.
type Point struct {
	X, Y int
}

// Size is a pixel extent.
type Size struct {
	W, H int
}

// Rect is an origin plus size, in pixels.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect builds a Rect from its origin and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// Center returns the center point of the rect, rounding down.
func (r Rect) Center() Point {
	return Point{
		X: r.Origin.X + r.Size.W/2,
		Y: r.Origin.Y + r.Size.H/2,
	}
}

// Max returns the exclusive bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.Origin.X + r.Size.W, Y: r.Origin.Y + r.Size.H}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.Origin.X, r.Origin.Y, r.Size.W, r.Size.H)
}
