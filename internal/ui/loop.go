package ui

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/watchface/internal/logging"
)

// DispatchMsg carries a closure to run on the event loop.
type DispatchMsg func()

// Loop posts work from other goroutines onto a Bubble Tea program.
type Loop struct {
	mu      sync.RWMutex
	program *tea.Program
}

// Attach binds the loop to a program. Work posted before Attach is dropped.
func (l *Loop) Attach(p *tea.Program) {
	l.mu.Lock()
	l.program = p
	l.mu.Unlock()
}

// Post queues fn on the event loop. It blocks until the loop accepts the
// message or the program exits.
func (l *Loop) Post(fn func()) {
	l.mu.RLock()
	p := l.program
	l.mu.RUnlock()

	if p == nil {
		logging.Warn("Dropping event posted before the event loop started")
		return
	}
	p.Send(DispatchMsg(fn))
}

// Call states.
const (
	callPending int32 = iota
	callStarted
	callAbandoned
)

// Call runs fn on the event loop and waits for its result. If ctx ends
// before the loop picks fn up, fn never runs and ctx.Err() is returned.
// Once fn has started, Call waits for it regardless of ctx.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	var state atomic.Int32
	result := make(chan error, 1)
	go l.Post(func() {
		if !state.CompareAndSwap(callPending, callStarted) {
			logging.Debug("Skipping event abandoned by its caller")
			return
		}
		result <- fn()
	})

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(callPending, callAbandoned) {
			return ctx.Err()
		}
		return <-result
	}
}
