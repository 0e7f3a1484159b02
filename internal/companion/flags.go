package companion

import (
	"github.com/spf13/pflag"
)

// Flag names shared by the commands that edit settings.
const (
	FlagBackground       = "background"
	FlagHour             = "hour"
	FlagMinute           = "minute"
	FlagCalendarTopBG    = "cal-top-bg"
	FlagCalendarTopFG    = "cal-top-fg"
	FlagCalendarBottomBG = "cal-bottom-bg"
	FlagCalendarBottomFG = "cal-bottom-fg"
	FlagShowMonth        = "show-month"
	FlagVibeHour         = "vibe-hour"
	FlagMilitaryTime     = "24h"
)

// Flags binds the settings options to a flag set. Only flags given on the
// command line end up in Options.
type Flags struct {
	fs *pflag.FlagSet

	background       string
	hour             string
	minute           string
	calendarTopBG    string
	calendarTopFG    string
	calendarBottomBG string
	calendarBottomFG string
	showMonth        bool
	vibeHour         bool
	militaryTime     bool
}

// BindFlags registers the settings flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	colorHelp := " (#RRGGBB, 0xRRGGBB or " + paletteHint() + ")"

	fs.StringVar(&f.background, FlagBackground, "", "Background color"+colorHelp)
	fs.StringVar(&f.hour, FlagHour, "", "Hour digits color")
	fs.StringVar(&f.minute, FlagMinute, "", "Minute digits color")
	fs.StringVar(&f.calendarTopBG, FlagCalendarTopBG, "", "Weekday/month box background")
	fs.StringVar(&f.calendarTopFG, FlagCalendarTopFG, "", "Weekday/month box text")
	fs.StringVar(&f.calendarBottomBG, FlagCalendarBottomBG, "", "Day box background")
	fs.StringVar(&f.calendarBottomFG, FlagCalendarBottomFG, "", "Day box text")
	fs.BoolVar(&f.showMonth, FlagShowMonth, false, "Show the month instead of the weekday")
	fs.BoolVar(&f.vibeHour, FlagVibeHour, false, "Vibrate on the hour")
	fs.BoolVar(&f.militaryTime, FlagMilitaryTime, true, "Use the 24-hour clock")
	return f
}

// Options returns the options for the flags that were set.
func (f *Flags) Options() Options {
	var o Options
	str := func(name string, v string) *string {
		if f.fs.Changed(name) {
			return String(v)
		}
		return nil
	}
	boolean := func(name string, v bool) *bool {
		if f.fs.Changed(name) {
			return Bool(v)
		}
		return nil
	}

	o.Background = str(FlagBackground, f.background)
	o.Hour = str(FlagHour, f.hour)
	o.Minute = str(FlagMinute, f.minute)
	o.CalendarTopBG = str(FlagCalendarTopBG, f.calendarTopBG)
	o.CalendarTopFG = str(FlagCalendarTopFG, f.calendarTopFG)
	o.CalendarBottomBG = str(FlagCalendarBottomBG, f.calendarBottomBG)
	o.CalendarBottomFG = str(FlagCalendarBottomFG, f.calendarBottomFG)
	o.ShowMonth = boolean(FlagShowMonth, f.showMonth)
	o.VibeHour = boolean(FlagVibeHour, f.vibeHour)
	o.UseMilitaryTime = boolean(FlagMilitaryTime, f.militaryTime)
	return o
}
