// Package appmsg models the settings messages sent from the companion
// configuration page to the watch.
//
// A message is a flat JSON object of named integer fields. Any subset of the
// known keys may be present and unknown keys are ignored:
//
//	{"BackgroundColor": 16711680, "showMonth": 1}
//
// Colors are packed 0xRRGGBB integers. Flags are integers where exactly 1
// means true.
package appmsg

// Message keys.
const (
	KeyBackgroundColor       = "BackgroundColor"
	KeyHourColor             = "HourColor"
	KeyMinColor              = "MinColor"
	KeyCalendarTopFGColor    = "CalendarTopFGColor"
	KeyCalendarTopBGColor    = "CalendarTopBGColor"
	KeyCalendarBottomFGColor = "CalendarBottomFGColor"
	KeyCalendarBottomBGColor = "CalendarBottomBGColor"
	KeyShowMonth             = "showMonth"
	KeyVibeHour              = "vibeHour"
	KeyUseMil                = "useMil"
)

// ColorKeys lists the color fields in a stable order.
var ColorKeys = []string{
	KeyBackgroundColor,
	KeyHourColor,
	KeyMinColor,
	KeyCalendarTopFGColor,
	KeyCalendarTopBGColor,
	KeyCalendarBottomFGColor,
	KeyCalendarBottomBGColor,
}

// FlagKeys lists the boolean fields in a stable order.
var FlagKeys = []string{
	KeyShowMonth,
	KeyVibeHour,
	KeyUseMil,
}

// Keys returns every known key, colors first.
func Keys() []string {
	keys := make([]string, 0, len(ColorKeys)+len(FlagKeys))
	keys = append(keys, ColorKeys...)
	return append(keys, FlagKeys...)
}

// IsColorKey reports whether key names a color field.
func IsColorKey(key string) bool {
	for _, k := range ColorKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsFlagKey reports whether key names a boolean field.
func IsFlagKey(key string) bool {
	for _, k := range FlagKeys {
		if k == key {
			return true
		}
	}
	return false
}
