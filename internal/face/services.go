package face

import (
	"errors"

	"github.com/muurk/watchface/internal/appmsg"
	"github.com/muurk/watchface/internal/clock"
	"github.com/muurk/watchface/internal/logging"
)

// TickService is the timer the App subscribes to for minute and day ticks.
type TickService interface {
	Subscribe(units clock.Units, h clock.Handler)
	Unsubscribe()
}

// InboxHandler receives a decoded sync message.
type InboxHandler func(u *appmsg.Update) error

// Mailbox routes inbound sync messages to the registered handler.
type Mailbox struct {
	handler InboxHandler
}

// Register sets the handler for inbound messages.
func (m *Mailbox) Register(h InboxHandler) { m.handler = h }

// Deregister drops the handler; later messages are discarded.
func (m *Mailbox) Deregister() { m.handler = nil }

// Registered reports whether a handler is set.
func (m *Mailbox) Registered() bool { return m.handler != nil }

// ErrNoInbox is returned by Deliver when no handler is registered.
var ErrNoInbox = errors.New("face: no inbox handler registered")

// Deliver hands u to the handler. Messages arriving with no handler are
// dropped and reported with ErrNoInbox.
func (m *Mailbox) Deliver(u *appmsg.Update) error {
	if m.handler == nil {
		logging.Warn("Dropping sync message, no inbox handler registered")
		return ErrNoInbox
	}
	return m.handler(u)
}

// FocusHandlers are called around app focus transitions. WillFocus fires
// before a transition completes, DidFocus after.
type FocusHandlers struct {
	WillFocus func(focusing bool)
	DidFocus  func(focused bool)
}

// FocusEvents dispatches focus transitions to the subscribed handlers.
type FocusEvents struct {
	handlers *FocusHandlers
}

// Subscribe registers handlers, replacing any previous ones.
func (f *FocusEvents) Subscribe(h FocusHandlers) { f.handlers = &h }

// Unsubscribe removes the handlers.
func (f *FocusEvents) Unsubscribe() { f.handlers = nil }

// Subscribed reports whether handlers are registered.
func (f *FocusEvents) Subscribed() bool { return f.handlers != nil }

// WillFocus notifies that a focus transition is starting.
func (f *FocusEvents) WillFocus(focusing bool) {
	if f.handlers != nil && f.handlers.WillFocus != nil {
		f.handlers.WillFocus(focusing)
	}
}

// DidFocus notifies that a focus transition finished.
func (f *FocusEvents) DidFocus(focused bool) {
	if f.handlers != nil && f.handlers.DidFocus != nil {
		f.handlers.DidFocus(focused)
	}
}

type nopTicks struct{}

func (nopTicks) Subscribe(clock.Units, clock.Handler) {}
func (nopTicks) Unsubscribe()                         {}

var _ TickService = (*clock.Service)(nil)
