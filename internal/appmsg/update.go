package appmsg

import (
	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/settings"
)

// Update is a decoded message: one optional value per settings field. Nil
// fields were absent (or malformed) and leave the setting unchanged.
type Update struct {
	BackgroundColor       *display.Color
	HourColor             *display.Color
	MinColor              *display.Color
	CalendarTopFGColor    *display.Color
	CalendarTopBGColor    *display.Color
	CalendarBottomFGColor *display.Color
	CalendarBottomBGColor *display.Color
	ShowMonth             *bool
	VibeHour              *bool
	UseMilitaryTime       *bool

	// Malformed lists known keys whose values could not be used.
	Malformed []string
}

func (u *Update) colorField(key string) **display.Color {
	switch key {
	case KeyBackgroundColor:
		return &u.BackgroundColor
	case KeyHourColor:
		return &u.HourColor
	case KeyMinColor:
		return &u.MinColor
	case KeyCalendarTopFGColor:
		return &u.CalendarTopFGColor
	case KeyCalendarTopBGColor:
		return &u.CalendarTopBGColor
	case KeyCalendarBottomFGColor:
		return &u.CalendarBottomFGColor
	case KeyCalendarBottomBGColor:
		return &u.CalendarBottomBGColor
	}
	return nil
}

func (u *Update) flagField(key string) **bool {
	switch key {
	case KeyShowMonth:
		return &u.ShowMonth
	case KeyVibeHour:
		return &u.VibeHour
	case KeyUseMil:
		return &u.UseMilitaryTime
	}
	return nil
}

// Set records value for key, converting it the way the watch does: colors
// from packed 0xRRGGBB, flags true only for exactly 1. Unknown keys are
// ignored and reported as false.
func (u *Update) Set(key string, value int64) bool {
	switch {
	case IsColorKey(key):
		c := display.ColorFromHex(int32(value))
		*u.colorField(key) = &c
	case IsFlagKey(key):
		b := value == 1
		*u.flagField(key) = &b
	default:
		return false
	}
	return true
}

// Present returns the keys carried by the update, colors first.
func (u *Update) Present() []string {
	var keys []string
	for _, k := range ColorKeys {
		if *u.colorField(k) != nil {
			keys = append(keys, k)
		}
	}
	for _, k := range FlagKeys {
		if *u.flagField(k) != nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// Empty reports whether no field is present.
func (u *Update) Empty() bool {
	return len(u.Present()) == 0
}

// Apply overwrites the fields of s that are present in the update.
func (u *Update) Apply(s *settings.Settings) {
	setColor(&s.BackgroundColor, u.BackgroundColor)
	setColor(&s.HourColor, u.HourColor)
	setColor(&s.MinColor, u.MinColor)
	setColor(&s.CalendarTopFGColor, u.CalendarTopFGColor)
	setColor(&s.CalendarTopBGColor, u.CalendarTopBGColor)
	setColor(&s.CalendarBottomFGColor, u.CalendarBottomFGColor)
	setColor(&s.CalendarBottomBGColor, u.CalendarBottomBGColor)
	setFlag(&s.ShowMonth, u.ShowMonth)
	setFlag(&s.VibeHour, u.VibeHour)
	setFlag(&s.UseMilitaryTime, u.UseMilitaryTime)
}

func setColor(dst *display.Color, v *display.Color) {
	if v != nil {
		*dst = *v
	}
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
