// Package companion builds settings messages for a watchface and delivers
// them over the sync channel.
package companion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/settings"
)

// Options is a partial settings update. Nil fields are left out of the
// message and keep their current value on the watch.
type Options struct {
	Background       *string
	Hour             *string
	Minute           *string
	CalendarTopBG    *string
	CalendarBottomBG *string
	CalendarTopFG    *string
	CalendarBottomFG *string
	ShowMonth        *bool
	VibeHour         *bool
	UseMilitaryTime  *bool
}

// String returns a pointer to s, for building Options literals.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building Options literals.
func Bool(b bool) *bool { return &b }

// DefaultOptions returns Options carrying every field of the platform's
// built-in settings, used to reset a watch.
func DefaultOptions(p display.Platform) Options {
	d := settings.Defaults(p)
	hex := func(c display.Color) *string { return String(c.Hex()) }
	return Options{
		Background:       hex(d.BackgroundColor),
		Hour:             hex(d.HourColor),
		Minute:           hex(d.MinColor),
		CalendarTopBG:    hex(d.CalendarTopBGColor),
		CalendarBottomBG: hex(d.CalendarBottomBGColor),
		CalendarTopFG:    hex(d.CalendarTopFGColor),
		CalendarBottomFG: hex(d.CalendarBottomFGColor),
		ShowMonth:        Bool(d.ShowMonth),
		VibeHour:         Bool(d.VibeHour),
		UseMilitaryTime:  Bool(d.UseMilitaryTime),
	}
}

// Empty reports whether no field is set.
func (o Options) Empty() bool {
	for _, c := range o.colors() {
		if c.value != nil {
			return false
		}
	}
	for _, f := range o.flags() {
		if f.value != nil {
			return false
		}
	}
	return true
}

type colorOption struct {
	key   string
	value *string
}

type flagOption struct {
	key   string
	value *bool
}

func (o Options) colors() []colorOption {
	return []colorOption{
		{appmsg.KeyBackgroundColor, o.Background},
		{appmsg.KeyHourColor, o.Hour},
		{appmsg.KeyMinColor, o.Minute},
		{appmsg.KeyCalendarTopBGColor, o.CalendarTopBG},
		{appmsg.KeyCalendarBottomBGColor, o.CalendarBottomBG},
		{appmsg.KeyCalendarTopFGColor, o.CalendarTopFG},
		{appmsg.KeyCalendarBottomFGColor, o.CalendarBottomFG},
	}
}

func (o Options) flags() []flagOption {
	return []flagOption{
		{appmsg.KeyShowMonth, o.ShowMonth},
		{appmsg.KeyVibeHour, o.VibeHour},
		{appmsg.KeyUseMil, o.UseMilitaryTime},
	}
}

// Message validates the options and builds the outbound message. All
// invalid fields are reported together.
func (o Options) Message() (appmsg.Message, error) {
	msg := appmsg.Message{}
	var errs []error

	for _, c := range o.colors() {
		if c.value == nil {
			continue
		}
		hex, err := ParseColor(*c.value)
		if err != nil {
			errs = append(errs, NewValidationError(c.key, err.Error()))
			continue
		}
		msg.SetColor(c.key, hex)
	}
	for _, f := range o.flags() {
		if f.value != nil {
			msg.SetFlag(f.key, *f.value)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return msg, nil
}

// ParseColor accepts "#RRGGBB", "0xRRGGBB", "RRGGBB" or a palette name and
// returns the packed 0xRRGGBB value.
func ParseColor(s string) (int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty color")
	}

	if c, ok := display.ColorByName(s); ok {
		if c.IsClear() {
			return 0, fmt.Errorf("color %q cannot be sent to a watch", s)
		}
		return c.HexValue(), nil
	}

	digits := s
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	}
	if len(digits) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB, 0xRRGGBB or a color name", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB, 0xRRGGBB or a color name", s)
	}
	return int32(v), nil
}

func paletteHint() string {
	return strings.Join(display.ColorNames(), ", ")
}
