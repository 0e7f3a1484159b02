package face

import (
	"errors"
	"testing"
	"time"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/clock"
	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/persist"
	"github.com/muurk/watchface/internal/settings"
)

type fakeTicks struct {
	units        clock.Units
	handler      clock.Handler
	subscribes   int
	unsubscribes int
}

func (f *fakeTicks) Subscribe(units clock.Units, h clock.Handler) {
	f.units = units
	f.handler = h
	f.subscribes++
}

func (f *fakeTicks) Unsubscribe() {
	f.handler = nil
	f.unsubscribes++
}

func (f *fakeTicks) fire(now time.Time, changed clock.Units) {
	if f.handler != nil {
		f.handler(now, changed)
	}
}

type countingVibrator struct {
	pulses int
}

func (v *countingVibrator) ShortPulse() { v.pulses++ }

type harness struct {
	app     *App
	ticks   *fakeTicks
	vib     *countingVibrator
	storage *persist.Memory
}

var friday = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func newHarness(t *testing.T, workaround bool) *harness {
	t.Helper()
	h := &harness{
		ticks:   &fakeTicks{},
		vib:     &countingVibrator{},
		storage: persist.NewMemory(),
	}
	h.app = New(Config{
		Platform:        display.Basalt,
		Storage:         h.storage,
		Clock:           h.ticks,
		Vibrator:        h.vib,
		FocusWorkaround: workaround,
		Now:             func() time.Time { return friday },
	})
	return h
}

func (h *harness) text(name string) string {
	r := h.app.Composer().Region(name)
	if r == nil {
		return ""
	}
	return r.Text
}

func decode(t *testing.T, payload string) *appmsg.Update {
	t.Helper()
	u, err := appmsg.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", payload, err)
	}
	return u
}

func TestInit(t *testing.T) {
	h := newHarness(t, true)
	if h.app.State() != StateUninitialized {
		t.Fatalf("initial state = %v", h.app.State())
	}

	if err := h.app.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if h.app.State() != StateShown {
		t.Errorf("state = %v, want shown", h.app.State())
	}
	if h.app.Center() != (display.Point{X: 72, Y: 84}) {
		t.Errorf("center = %+v", h.app.Center())
	}
	if h.app.Screen().Background() != display.ColorBlack {
		t.Errorf("background = %v, want black", h.app.Screen().Background())
	}
	if h.ticks.units != TickUnits || h.ticks.subscribes != 1 {
		t.Errorf("clock subscription = %v x%d", h.ticks.units, h.ticks.subscribes)
	}
	if !h.app.Inbox().Registered() {
		t.Error("inbox handler not registered")
	}
	if !h.app.Focus().Subscribed() {
		t.Error("focus handlers not subscribed")
	}
	if got := h.text(display.RegionHour) + ":" + h.text(display.RegionMinute); got != "14:30" {
		t.Errorf("time = %s, want 14:30", got)
	}
	if got := h.text(display.RegionCalendar); got != "Fri" {
		t.Errorf("calendar = %s, want Fri", got)
	}

	if err := h.app.Init(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Init() error = %v, want ErrInvalidState", err)
	}
}

func TestInit_UsesPersistedSettings(t *testing.T) {
	h := newHarness(t, false)

	stored := settings.Defaults(display.Basalt)
	stored.ShowMonth = true
	stored.UseMilitaryTime = false
	stored.BackgroundColor = display.ColorBlue
	data, _ := stored.MarshalBinary()
	if err := h.storage.Write(settings.Key, data); err != nil {
		t.Fatal(err)
	}

	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}

	if got := h.text(display.RegionCalendar); got != "Mar" {
		t.Errorf("calendar = %s, want Mar", got)
	}
	if got := h.text(display.RegionHour); got != "02" {
		t.Errorf("hour = %s, want 02", got)
	}
	if h.app.Screen().Background() != display.ColorBlue {
		t.Errorf("background = %v, want blue", h.app.Screen().Background())
	}
}

func TestHandleInbox_ShowMonthOnly(t *testing.T) {
	h := newHarness(t, false)
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}
	before := h.app.Settings()

	if err := h.app.Inbox().Deliver(decode(t, `{"showMonth": 1}`)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	want := before
	want.ShowMonth = true
	if h.app.Settings() != want {
		t.Errorf("settings = %+v, want %+v", h.app.Settings(), want)
	}
	if got := h.text(display.RegionCalendar); got != "Mar" {
		t.Errorf("calendar after save = %s, want Mar", got)
	}

	// The update was persisted
	reloaded := settings.NewStore(h.storage, display.Basalt)
	reloaded.Load()
	if *reloaded.Current() != want {
		t.Errorf("persisted = %+v, want %+v", *reloaded.Current(), want)
	}
}

func TestHandleInbox_EmptyMessageStillSaves(t *testing.T) {
	h := newHarness(t, false)
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}
	if h.storage.Exists(settings.Key) {
		t.Fatal("settings persisted before any message")
	}

	if err := h.app.Inbox().Deliver(decode(t, `{"unknown": 5}`)); err != nil {
		t.Fatal(err)
	}
	if !h.storage.Exists(settings.Key) {
		t.Error("empty message did not trigger a save")
	}
	if h.app.Settings() != settings.Defaults(display.Basalt) {
		t.Errorf("settings changed by empty message: %+v", h.app.Settings())
	}
}

func TestHandleInbox_RefreshesColors(t *testing.T) {
	h := newHarness(t, false)
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}
	dirty := h.app.Screen().Dirty()

	msg := `{"BackgroundColor": 255, "HourColor": 16776960, "CalendarTopBGColor": 65280}`
	if err := h.app.Inbox().Deliver(decode(t, msg)); err != nil {
		t.Fatal(err)
	}

	if h.app.Screen().Background() != display.ColorBlue {
		t.Errorf("background = %v, want blue", h.app.Screen().Background())
	}
	if c := h.app.Composer().Region(display.RegionHour).Foreground; c != display.ColorYellow {
		t.Errorf("hour color = %v, want yellow", c)
	}
	if c := h.app.Composer().Region(display.RegionCalendar).Background; c != display.ColorGreen {
		t.Errorf("calendar background = %v, want green", c)
	}
	if h.app.Screen().Dirty() <= dirty {
		t.Error("screen not marked dirty after save")
	}
}

func TestHourlyVibration(t *testing.T) {
	h := newHarness(t, false)
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}
	if err := h.app.Inbox().Deliver(decode(t, `{"vibeHour": 1}`)); err != nil {
		t.Fatal(err)
	}

	h.ticks.fire(time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC), clock.MinuteUnit)
	if h.vib.pulses != 1 {
		t.Errorf("pulses at minute 0 = %d, want 1", h.vib.pulses)
	}

	h.ticks.fire(time.Date(2024, 3, 15, 15, 1, 0, 0, time.UTC), clock.MinuteUnit)
	if h.vib.pulses != 1 {
		t.Errorf("pulses after minute 1 = %d, want 1", h.vib.pulses)
	}
	if got := h.text(display.RegionMinute); got != "01" {
		t.Errorf("minute = %s, want 01", got)
	}
}

func TestFocusWorkaround(t *testing.T) {
	h := newHarness(t, true)
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}
	screen := h.app.Screen()
	focus := h.app.Focus()

	focus.WillFocus(false)
	if screen.Hidden() || h.app.State() != StateShown {
		t.Fatal("WillFocus(false) should not hide the screen")
	}

	dirty := screen.Dirty()
	focus.WillFocus(true)
	if !screen.Hidden() || h.app.State() != StateHidden {
		t.Errorf("WillFocus(true): hidden=%v state=%v", screen.Hidden(), h.app.State())
	}
	if screen.Dirty() <= dirty {
		t.Error("WillFocus(true) did not mark the root dirty")
	}

	dirty = screen.Dirty()
	focus.DidFocus(true)
	if screen.Hidden() || h.app.State() != StateShown {
		t.Errorf("DidFocus(true): hidden=%v state=%v", screen.Hidden(), h.app.State())
	}
	if screen.Dirty() <= dirty {
		t.Error("DidFocus(true) did not mark the root dirty")
	}
}

func TestFocusWorkaroundDisabled(t *testing.T) {
	h := newHarness(t, false)
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}

	h.app.Focus().WillFocus(true)
	if h.app.Screen().Hidden() {
		t.Error("screen hidden with the focus workaround disabled")
	}
}

func TestDeinit(t *testing.T) {
	h := newHarness(t, true)

	if err := h.app.Deinit(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Deinit() before Init error = %v", err)
	}
	if err := h.app.Init(); err != nil {
		t.Fatal(err)
	}
	screen := h.app.Screen()

	if err := h.app.Deinit(); err != nil {
		t.Fatalf("Deinit() error = %v", err)
	}

	if h.app.State() != StateTerminated {
		t.Errorf("state = %v, want terminated", h.app.State())
	}
	if screen.Loaded() || len(screen.Regions()) != 0 {
		t.Error("screen still loaded after Deinit")
	}
	if h.app.Composer().Built() {
		t.Error("regions not torn down")
	}
	if h.ticks.unsubscribes != 1 {
		t.Errorf("clock unsubscribes = %d, want 1", h.ticks.unsubscribes)
	}
	if h.app.Inbox().Registered() || h.app.Focus().Subscribed() {
		t.Error("inbox or focus still subscribed")
	}

	// Late events are dropped
	if err := h.app.Inbox().Deliver(decode(t, `{"showMonth": 1}`)); !errors.Is(err, ErrNoInbox) {
		t.Errorf("Deliver() after Deinit error = %v, want ErrNoInbox", err)
	}
	if h.app.Settings().ShowMonth {
		t.Error("message applied after Deinit")
	}
	h.app.HandleTick(time.Now(), clock.MinuteUnit)

	if err := h.app.Deinit(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Deinit() error = %v", err)
	}
}

func TestStateString(t *testing.T) {
	if StateHidden.String() != "hidden" || State(42).String() != "State(42)" {
		t.Errorf("State.String() = %q / %q", StateHidden.String(), State(42).String())
	}
}
