package display

import (
	"time"

	"github.com/muurk/watchface/internal/clock"
	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// Region names.
const (
	RegionHour     = "hour"
	RegionMinute   = "minute"
	RegionDay      = "day"
	RegionCalendar = "calendar"
)

// Options is the subset of the user's settings that affects rendering.
type Options struct {
	Background       Color
	HourColor        Color
	MinColor         Color
	CalendarTopFG    Color
	CalendarTopBG    Color
	CalendarBottomFG Color
	CalendarBottomBG Color
	ShowMonth        bool
	VibeOnHour       bool
	Use24Hour        bool
}

// OptionsSource supplies the current display options.
type OptionsSource interface {
	DisplayOptions() Options
}

// Vibrator produces haptic feedback.
type Vibrator interface {
	ShortPulse()
}

// Composer owns the four text regions of the watchface and keeps their text
// and colors in step with the clock and the settings.
type Composer struct {
	platform Platform
	source   OptionsSource
	vibrator Vibrator
	now      func() time.Time

	screen   *Screen
	hour     *Region
	minute   *Region
	day      *Region
	calendar *Region
}

// NewComposer creates a composer for platform. vibrator may be nil.
func NewComposer(platform Platform, source OptionsSource, vibrator Vibrator) *Composer {
	return &Composer{
		platform: platform,
		source:   source,
		vibrator: vibrator,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for the initial refresh.
func (c *Composer) SetClock(now func() time.Time) {
	c.now = now
}

// Built reports whether the regions currently exist.
func (c *Composer) Built() bool {
	return c.screen != nil
}

// Region returns a built region by name, or nil.
func (c *Composer) Region(name string) *Region {
	switch name {
	case RegionHour:
		return c.hour
	case RegionMinute:
		return c.minute
	case RegionDay:
		return c.day
	case RegionCalendar:
		return c.calendar
	}
	return nil
}

// BuildRegions creates the four regions on screen, seeds them with
// placeholder text and immediately refreshes them with the current time.
func (c *Composer) BuildRegions(screen *Screen) {
	p := c.platform
	center := screen.Bounds().Center()

	c.hour = NewRegion(RegionHour, NewRect(
		center.X-39, center.Y-50-p.IfRound(19, 10), 144, 72))
	c.hour.Font = LoadFont(p.ifRoundFont(FontTime64, FontTime52))
	c.hour.Text = "59"

	c.minute = NewRegion(RegionMinute, NewRect(
		center.X-39, center.Y+p.IfRound(5-19, 1-10), 144, 72))
	c.minute.Font = LoadFont(p.ifRoundFont(FontTime64, FontTime52))
	c.minute.Text = "59"

	c.day = NewRegion(RegionDay, NewRect(
		center.X-p.IfRound(76, 68), center.Y+5-p.IfRound(18, 10), 50, p.IfRound(40, 34)))
	c.day.Font = LoadFont(p.ifRoundFont(FontDate32, FontDate28))
	c.day.Text = "31"

	c.calendar = NewRegion(RegionCalendar, NewRect(
		center.X-p.IfRound(76, 68), center.Y-p.IfRound(18+15, 15+10), 50, p.IfRound(24, 20)))
	c.calendar.Font = LoadFont(p.ifRoundFont(FontDate20, FontDate18))
	c.calendar.Text = "Fri"

	c.screen = screen
	opts := c.source.DisplayOptions()
	c.hour.Foreground = opts.HourColor
	c.minute.Foreground = opts.MinColor
	c.day.Foreground, c.day.Background = opts.CalendarBottomFG, opts.CalendarBottomBG
	c.calendar.Foreground, c.calendar.Background = opts.CalendarTopFG, opts.CalendarTopBG

	for _, r := range []*Region{c.hour, c.minute, c.day, c.calendar} {
		screen.AddRegion(r)
	}

	logging.Debug("Display regions built",
		zap.String("platform", p.Name),
		zap.String("hour", c.hour.Frame.String()),
		zap.String("minute", c.minute.Frame.String()),
		zap.String("day", c.day.Frame.String()),
		zap.String("calendar", c.calendar.Frame.String()),
	)

	c.Refresh(c.now(), clock.MinuteUnit|clock.DayUnit)
}

// ApplySettings pushes the current colors onto the built regions and
// re-renders every text field. It never vibrates.
func (c *Composer) ApplySettings() {
	if !c.Built() {
		return
	}
	opts := c.source.DisplayOptions()

	c.hour.Foreground = opts.HourColor
	c.hour.Background = ColorClear
	c.minute.Foreground = opts.MinColor
	c.minute.Background = ColorClear
	c.day.Foreground = opts.CalendarBottomFG
	c.day.Background = opts.CalendarBottomBG
	c.calendar.Foreground = opts.CalendarTopFG
	c.calendar.Background = opts.CalendarTopBG

	c.update(c.now(), clock.MinuteUnit|clock.DayUnit, opts, false)
}

// Refresh updates the regions affected by changed. When the minute rolls
// over to zero and hourly vibration is enabled it pulses the vibrator once.
func (c *Composer) Refresh(now time.Time, changed clock.Units) {
	if !c.Built() {
		return
	}
	c.update(now, changed, c.source.DisplayOptions(), true)
}

func (c *Composer) update(now time.Time, changed clock.Units, opts Options, vibrate bool) {
	if changed&clock.MinuteUnit != 0 {
		c.hour.Text = FormatHour(now, opts.Use24Hour)
		c.minute.Text = FormatMinute(now)

		if vibrate && opts.VibeOnHour && now.Minute() == 0 && c.vibrator != nil {
			logging.Debug("Hourly vibration", zap.Time("time", now))
			c.vibrator.ShortPulse()
		}
	}

	if changed&clock.DayUnit != 0 {
		c.day.Text = FormatDay(now)
		c.calendar.Text = FormatCalendarLabel(now, opts.ShowMonth)
	}

	c.screen.MarkDirty()
}

// Teardown releases the regions.
func (c *Composer) Teardown() {
	if !c.Built() {
		return
	}
	for _, r := range []*Region{c.hour, c.minute, c.day, c.calendar} {
		c.screen.RemoveRegion(r)
	}
	c.hour, c.minute, c.day, c.calendar = nil, nil, nil, nil
	c.screen = nil
}

func (p Platform) ifRoundFont(round, rect FontID) FontID {
	if p.Round() {
		return round
	}
	return rect
}
