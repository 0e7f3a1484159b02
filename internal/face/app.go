package face

import (
	"errors"
	"fmt"
	"time"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/clock"
	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/logging"
	"github.com/muurk/watchface/internal/persist"
	"github.com/muurk/watchface/internal/settings"
	"go.uber.org/zap"
)

// State is the App's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateShown
	StateHidden
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShown:
		return "shown"
	case StateHidden:
		return "hidden"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrInvalidState is returned when a lifecycle call does not fit the
// current state.
var ErrInvalidState = errors.New("face: invalid lifecycle state")

// TickUnits are the clock units the watchface subscribes to.
const TickUnits = clock.MinuteUnit | clock.DayUnit

// Config wires an App to its host.
type Config struct {
	Platform display.Platform
	Storage  persist.Storage
	Clock    TickService
	Vibrator display.Vibrator

	// FocusWorkaround hides the root layer during focus transitions to
	// avoid drawing artifacts under overlays.
	FocusWorkaround bool

	// Now is the time source for the initial render. Defaults to time.Now.
	Now func() time.Time
}

// App is the watchface application context.
type App struct {
	platform        display.Platform
	focusWorkaround bool
	now             func() time.Time

	state    State
	store    *settings.Store
	composer *display.Composer
	screen   *display.Screen
	center   display.Point

	clock TickService
	inbox Mailbox
	focus FocusEvents
}

// New creates an uninitialized App.
func New(cfg Config) *App {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Clock == nil {
		cfg.Clock = nopTicks{}
	}
	if cfg.Storage == nil {
		cfg.Storage = persist.NewMemory()
	}
	if cfg.Platform.Name == "" {
		cfg.Platform = display.DefaultPlatform
	}

	store := settings.NewStore(cfg.Storage, cfg.Platform)
	composer := display.NewComposer(cfg.Platform, store, cfg.Vibrator)
	composer.SetClock(cfg.Now)

	return &App{
		platform:        cfg.Platform,
		focusWorkaround: cfg.FocusWorkaround,
		now:             cfg.Now,
		store:           store,
		composer:        composer,
		clock:           cfg.Clock,
	}
}

// Init loads settings, builds and shows the screen, and subscribes to the
// sync inbox, focus changes and the clock.
func (a *App) Init() error {
	if a.state != StateUninitialized {
		return fmt.Errorf("%w: Init called while %s", ErrInvalidState, a.state)
	}

	a.store.Load()
	a.store.OnSave(a.settingsSaved)
	a.inbox.Register(a.HandleInbox)

	a.screen = display.NewScreen(a.platform.Bounds)
	a.screen.SetHandlers(display.Handlers{
		Load:   a.screenLoad,
		Unload: a.screenUnload,
	})
	a.center = a.screen.Bounds().Center()
	a.screen.SetBackground(a.store.Current().BackgroundColor)
	a.state = StateRunning

	a.screen.Push()

	if a.focusWorkaround {
		a.focus.Subscribe(FocusHandlers{
			WillFocus: a.willFocus,
			DidFocus:  a.didFocus,
		})
	}
	a.clock.Subscribe(TickUnits, a.HandleTick)

	logging.Info("Watchface initialized",
		zap.String("platform", a.platform.Name),
		zap.String("state", a.state.String()),
		zap.Bool("focus_workaround", a.focusWorkaround),
	)
	return nil
}

// Deinit destroys the screen and drops every subscription.
func (a *App) Deinit() error {
	switch a.state {
	case StateUninitialized, StateTerminated:
		return fmt.Errorf("%w: Deinit called while %s", ErrInvalidState, a.state)
	}

	a.clock.Unsubscribe()
	a.focus.Unsubscribe()
	a.screen.Destroy()
	a.inbox.Deregister()
	a.state = StateTerminated

	logging.Info("Watchface terminated")
	return nil
}

func (a *App) screenLoad(s *display.Screen) {
	a.composer.BuildRegions(s)
	a.state = StateShown
}

func (a *App) screenUnload(*display.Screen) {
	a.composer.Teardown()
	a.state = StateRunning
}

// HandleTick forwards a clock tick to the composer.
func (a *App) HandleTick(now time.Time, changed clock.Units) {
	if a.state == StateTerminated {
		return
	}
	logging.Debug("Tick",
		zap.Time("time", now),
		zap.String("changed", changed.String()),
	)
	a.composer.Refresh(now, changed)
}

// HandleInbox applies a sync message to the settings and saves them. Save
// runs even when the message carried no recognised field.
func (a *App) HandleInbox(u *appmsg.Update) error {
	u.Apply(a.store.Current())
	logging.Info("Settings updated from companion",
		zap.Strings("fields", u.Present()),
		zap.Strings("malformed", u.Malformed),
	)
	return a.store.Save()
}

func (a *App) settingsSaved(s settings.Settings) {
	if a.screen == nil {
		return
	}
	a.screen.SetBackground(s.BackgroundColor)
	a.composer.ApplySettings()
}

func (a *App) willFocus(focusing bool) {
	if !focusing || a.state != StateShown {
		return
	}
	root := a.screen
	root.SetHidden(true)
	root.MarkDirty()
	a.state = StateHidden
}

func (a *App) didFocus(focused bool) {
	if !focused || a.state != StateHidden {
		return
	}
	root := a.screen
	root.SetHidden(false)
	root.MarkDirty()
	a.state = StateShown
}

// State returns the current lifecycle state.
func (a *App) State() State { return a.state }

// Screen returns the root screen, or nil before Init.
func (a *App) Screen() *display.Screen { return a.screen }

// Center returns the cached screen center point.
func (a *App) Center() display.Point { return a.center }

// Platform returns the watch platform.
func (a *App) Platform() display.Platform { return a.platform }

// Settings returns a copy of the current settings.
func (a *App) Settings() settings.Settings { return *a.store.Current() }

// Composer returns the display composer.
func (a *App) Composer() *display.Composer { return a.composer }

// Inbox returns the mailbox the host delivers sync messages to.
func (a *App) Inbox() *Mailbox { return &a.inbox }

// Focus returns the focus notifier the host reports transitions to.
func (a *App) Focus() *FocusEvents { return &a.focus }
