// Package face is the watchface's lifecycle controller.
//
// An App is the explicit application context: it owns the settings store,
// the root screen and the display composer, and it is the only thing the
// host's event loop talks to. All methods must be called from that single
// loop; App does no locking of its own.
//
// # States
//
//	Uninitialized --Init--> Running --screen load--> Shown
//	Shown --WillFocus(true)--> Hidden --DidFocus(true)--> Shown
//	Shown/Hidden --Deinit--> Terminated
//
// # Host services
//
// The clock is anything with Subscribe/Unsubscribe (clock.Service in
// production). Sync messages arrive through a Mailbox and focus changes
// through FocusEvents; the host calls Deliver and WillFocus/DidFocus on
// them from its event loop.
package face
