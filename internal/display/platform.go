package display

import (
	"fmt"
	"sort"
	"strings"
)

// Shape is the physical outline of a watch display.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeRound
)

func (s Shape) String() string {
	if s == ShapeRound {
		return "round"
	}
	return "rect"
}

// Platform describes one watch model: its screen size, shape and whether it
// can show color.
type Platform struct {
	Name   string
	Bounds Rect
	Shape  Shape
	Color  bool
}

// Round reports whether the display is circular.
func (p Platform) Round() bool { return p.Shape == ShapeRound }

// Known platforms.
var (
	Aplite  = Platform{Name: "aplite", Bounds: NewRect(0, 0, 144, 168), Shape: ShapeRect, Color: false}
	Basalt  = Platform{Name: "basalt", Bounds: NewRect(0, 0, 144, 168), Shape: ShapeRect, Color: true}
	Chalk   = Platform{Name: "chalk", Bounds: NewRect(0, 0, 180, 180), Shape: ShapeRound, Color: true}
	Diorite = Platform{Name: "diorite", Bounds: NewRect(0, 0, 144, 168), Shape: ShapeRect, Color: false}
	Emery   = Platform{Name: "emery", Bounds: NewRect(0, 0, 200, 228), Shape: ShapeRect, Color: true}
)

// DefaultPlatform is used when no platform is configured.
var DefaultPlatform = Basalt

var platforms = map[string]Platform{
	Aplite.Name:  Aplite,
	Basalt.Name:  Basalt,
	Chalk.Name:   Chalk,
	Diorite.Name: Diorite,
	Emery.Name:   Emery,
}

// LookupPlatform returns the platform with the given name.
func LookupPlatform(name string) (Platform, error) {
	if name == "" {
		return DefaultPlatform, nil
	}
	p, ok := platforms[strings.ToLower(name)]
	if !ok {
		return Platform{}, fmt.Errorf("unknown platform %q (known: %s)", name, strings.Join(PlatformNames(), ", "))
	}
	return p, nil
}

// PlatformNames lists the known platform names in sorted order.
func PlatformNames() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IfRound picks round on circular displays and rect otherwise.
func (p Platform) IfRound(round, rect int) int {
	if p.Round() {
		return round
	}
	return rect
}

// IfColor picks color on color-capable displays and bw otherwise.
func (p Platform) IfColor(color, bw Color) Color {
	if p.Color {
		return color
	}
	return bw
}
