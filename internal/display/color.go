package display

import (
	"fmt"
	"sort"
	"strings"
)

// Color is the watch's native 8-bit color: two bits each of alpha, red,
// green and blue, packed as 0bAARRGGBB.
type Color uint8

// Palette entries used by the watchface defaults and the companion.
const (
	ColorClear     Color = 0x00
	ColorBlack     Color = 0xC0
	ColorWhite     Color = 0xFF
	ColorRed       Color = 0xF0
	ColorGreen     Color = 0xCC
	ColorBlue      Color = 0xC3
	ColorYellow    Color = 0xFC
	ColorCyan      Color = 0xCF
	ColorMagenta   Color = 0xF3
	ColorOrange    Color = 0xF8
	ColorLightGray Color = 0xEA
	ColorDarkGray  Color = 0xD5
)

// channelLevels expands a 2-bit channel to its 8-bit value.
var channelLevels = [4]uint8{0x00, 0x55, 0xAA, 0xFF}

// ColorFromHex converts a packed 0xRRGGBB integer to a Color by keeping the
// two most significant bits of each channel. The result is fully opaque.
func ColorFromHex(hex int32) Color {
	v := uint32(hex)
	r := (v >> 22) & 0x3
	g := (v >> 14) & 0x3
	b := (v >> 6) & 0x3
	return Color(0xC0 | r<<4 | g<<2 | b)
}

// Alpha returns the 2-bit alpha channel.
func (c Color) Alpha() uint8 { return uint8(c>>6) & 0x3 }

// IsClear reports whether the color is fully transparent.
func (c Color) IsClear() bool { return c.Alpha() == 0 }

// RGB returns the 8-bit channel values.
func (c Color) RGB() (r, g, b uint8) {
	return channelLevels[(c>>4)&0x3], channelLevels[(c>>2)&0x3], channelLevels[c&0x3]
}

// HexValue returns the color as a packed 0xRRGGBB integer.
func (c Color) HexValue() int32 {
	r, g, b := c.RGB()
	return int32(r)<<16 | int32(g)<<8 | int32(b)
}

// Hex returns the color as "#RRGGBB". Clear colors render as an empty string.
func (c Color) Hex() string {
	if c.IsClear() {
		return ""
	}
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	if c.IsClear() {
		return "clear"
	}
	return c.Hex()
}

var colorNames = map[Color]string{
	ColorClear:     "clear",
	ColorBlack:     "black",
	ColorWhite:     "white",
	ColorRed:       "red",
	ColorGreen:     "green",
	ColorBlue:      "blue",
	ColorYellow:    "yellow",
	ColorCyan:      "cyan",
	ColorMagenta:   "magenta",
	ColorOrange:    "orange",
	ColorLightGray: "lightgray",
	ColorDarkGray:  "darkgray",
}

// ColorByName looks up a palette entry by name (case-insensitive).
func ColorByName(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range colorNames {
		if n == name {
			return c, true
		}
	}
	return ColorClear, false
}

// ColorNames returns the opaque palette names in sorted order.
func ColorNames() []string {
	names := make([]string, 0, len(colorNames))
	for c, n := range colorNames {
		if !c.IsClear() {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
