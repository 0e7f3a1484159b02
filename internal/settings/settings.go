// Package settings holds the watchface's display preferences and persists
// them as a fixed-size record.
package settings

import (
	"errors"
	"fmt"

	"github.com/muurk/watchface/internal/display"
)

// Key is the storage key the settings record lives under.
const Key uint32 = 1

// RecordSize is the exact length of the persisted record: seven color bytes
// followed by three flag bytes.
const RecordSize = 10

var (
	// ErrRecordSize is returned when a stored record has the wrong length.
	ErrRecordSize = errors.New("settings: wrong record size")
	// ErrRecordCorrupt is returned when a flag byte is neither 0 nor 1.
	ErrRecordCorrupt = errors.New("settings: corrupt record")
)

// Settings is the complete set of user preferences. The field order matches
// the persisted layout.
type Settings struct {
	BackgroundColor       display.Color
	HourColor             display.Color
	MinColor              display.Color
	CalendarTopBGColor    display.Color
	CalendarBottomBGColor display.Color
	CalendarTopFGColor    display.Color
	CalendarBottomFGColor display.Color
	ShowMonth             bool
	VibeHour              bool
	UseMilitaryTime       bool
}

// Defaults returns the built-in configuration for platform: black
// background, white time, 24-hour clock, weekday shown, no vibration.
func Defaults(platform display.Platform) Settings {
	return Settings{
		BackgroundColor:       display.ColorBlack,
		HourColor:             display.ColorWhite,
		MinColor:              display.ColorWhite,
		CalendarTopBGColor:    platform.IfColor(display.ColorRed, display.ColorWhite),
		CalendarTopFGColor:    platform.IfColor(display.ColorWhite, display.ColorBlack),
		CalendarBottomBGColor: display.ColorWhite,
		CalendarBottomFGColor: display.ColorBlack,
		ShowMonth:             false,
		VibeHour:              false,
		UseMilitaryTime:       true,
	}
}

// DisplayOptions implements display.OptionsSource.
func (s Settings) DisplayOptions() display.Options {
	return display.Options{
		Background:       s.BackgroundColor,
		HourColor:        s.HourColor,
		MinColor:         s.MinColor,
		CalendarTopFG:    s.CalendarTopFGColor,
		CalendarTopBG:    s.CalendarTopBGColor,
		CalendarBottomFG: s.CalendarBottomFGColor,
		CalendarBottomBG: s.CalendarBottomBGColor,
		ShowMonth:        s.ShowMonth,
		VibeOnHour:       s.VibeHour,
		Use24Hour:        s.UseMilitaryTime,
	}
}

// MarshalBinary encodes the record in its fixed persisted layout.
func (s Settings) MarshalBinary() ([]byte, error) {
	return []byte{
		byte(s.BackgroundColor),
		byte(s.HourColor),
		byte(s.MinColor),
		byte(s.CalendarTopBGColor),
		byte(s.CalendarBottomBGColor),
		byte(s.CalendarTopFGColor),
		byte(s.CalendarBottomFGColor),
		boolByte(s.ShowMonth),
		boolByte(s.VibeHour),
		boolByte(s.UseMilitaryTime),
	}, nil
}

// UnmarshalBinary decodes a persisted record. On error s is left untouched.
func (s *Settings) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrRecordSize, len(data), RecordSize)
	}
	for i := 7; i < RecordSize; i++ {
		if data[i] > 1 {
			return fmt.Errorf("%w: flag byte %d is 0x%02x", ErrRecordCorrupt, i, data[i])
		}
	}

	*s = Settings{
		BackgroundColor:       display.Color(data[0]),
		HourColor:             display.Color(data[1]),
		MinColor:              display.Color(data[2]),
		CalendarTopBGColor:    display.Color(data[3]),
		CalendarBottomBGColor: display.Color(data[4]),
		CalendarTopFGColor:    display.Color(data[5]),
		CalendarBottomFGColor: display.Color(data[6]),
		ShowMonth:             data[7] == 1,
		VibeHour:              data[8] == 1,
		UseMilitaryTime:       data[9] == 1,
	}
	return nil
}

// Fields returns the settings as display strings, keyed by the names the
// companion uses.
func (s Settings) Fields() map[string]string {
	return map[string]string{
		"BackgroundColor":       s.BackgroundColor.String(),
		"HourColor":             s.HourColor.String(),
		"MinColor":              s.MinColor.String(),
		"CalendarTopBGColor":    s.CalendarTopBGColor.String(),
		"CalendarBottomBGColor": s.CalendarBottomBGColor.String(),
		"CalendarTopFGColor":    s.CalendarTopFGColor.String(),
		"CalendarBottomFGColor": s.CalendarBottomFGColor.String(),
		"showMonth":             fmt.Sprint(s.ShowMonth),
		"vibeHour":              fmt.Sprint(s.VibeHour),
		"useMil":                fmt.Sprint(s.UseMilitaryTime),
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
