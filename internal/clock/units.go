// Package clock is the watch's tick timer service. Subscribers name the time
// units they care about and are called whenever one of them rolls over.
package clock

import (
	"strings"
	"time"
)

// Units is a bitmask of calendar units.
type Units uint8

const (
	SecondUnit Units = 1 << iota
	MinuteUnit
	HourUnit
	DayUnit
	MonthUnit
	YearUnit
)

var unitNames = []struct {
	unit Units
	name string
}{
	{SecondUnit, "second"},
	{MinuteUnit, "minute"},
	{HourUnit, "hour"},
	{DayUnit, "day"},
	{MonthUnit, "month"},
	{YearUnit, "year"},
}

func (u Units) String() string {
	if u == 0 {
		return "none"
	}
	var parts []string
	for _, n := range unitNames {
		if u&n.unit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Changed returns the units whose value differs between prev and now. A
// change in a larger unit implies all smaller units changed too, matching
// how wall-clock rollovers behave.
func Changed(prev, now time.Time) Units {
	var u Units
	switch {
	case prev.Year() != now.Year():
		u |= YearUnit | MonthUnit | DayUnit | HourUnit | MinuteUnit | SecondUnit
	case prev.Month() != now.Month():
		u |= MonthUnit | DayUnit | HourUnit | MinuteUnit | SecondUnit
	case prev.Day() != now.Day():
		u |= DayUnit | HourUnit | MinuteUnit | SecondUnit
	case prev.Hour() != now.Hour():
		u |= HourUnit | MinuteUnit | SecondUnit
	case prev.Minute() != now.Minute():
		u |= MinuteUnit | SecondUnit
	case prev.Second() != now.Second():
		u |= SecondUnit
	}
	return u
}

// finest returns the duration of the smallest unit in u.
func (u Units) finest() time.Duration {
	switch {
	case u&SecondUnit != 0:
		return time.Second
	default:
		return time.Minute
	}
}

// nextBoundary returns the first instant after now where the smallest
// subscribed unit rolls over.
func nextBoundary(now time.Time, u Units) time.Time {
	return now.Truncate(u.finest()).Add(u.finest())
}
