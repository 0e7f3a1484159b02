package clock

import (
	"context"
	"sync"
	"time"

	"github.com/muurk/watchface/internal/logging"
	"go.uber.org/zap"
)

// Handler receives the new wall-clock time and the units that changed.
type Handler func(now time.Time, changed Units)

// Service delivers tick events on unit boundaries. Handlers are not called
// directly from the timer goroutine: each call is wrapped in a closure and
// handed to Post, which is expected to run it on the application's event
// loop.
type Service struct {
	// Post schedules fn on the event loop. When nil, handlers run on the
	// timer goroutine.
	Post func(fn func())

	// Now is the time source. Defaults to time.Now.
	Now func() time.Time

	// After waits for d. Defaults to time.After; tests replace it.
	After func(d time.Duration) <-chan time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewService creates a clock service that posts ticks through post.
func NewService(post func(fn func())) *Service {
	return &Service{Post: post}
}

// Subscribe starts delivering ticks for units to h, replacing any existing
// subscription.
func (s *Service) Subscribe(units Units, h Handler) {
	s.Unsubscribe()

	now := s.Now
	if now == nil {
		now = time.Now
	}
	after := s.After
	if after == nil {
		after = time.After
	}

	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	logging.Debug("Clock subscription started", zap.String("units", units.String()))

	go func() {
		prev := now()
		for {
			wait := nextBoundary(prev, units).Sub(now())
			if wait < 0 {
				wait = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-after(wait):
			}

			t := now()
			changed := Changed(prev, t)
			prev = t
			if changed&units == 0 {
				continue
			}
			s.deliver(ctx, h, t, changed)
		}
	}()
}

func (s *Service) deliver(ctx context.Context, h Handler, t time.Time, changed Units) {
	call := func() {
		if ctx.Err() != nil {
			return
		}
		h(t, changed)
	}
	if s.Post != nil {
		s.Post(call)
		return
	}
	call()
}

// Unsubscribe stops tick delivery. It does not wait for the timer goroutine,
// so it is safe to call from the event loop itself; ticks already posted are
// dropped when they run.
func (s *Service) Unsubscribe() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	logging.Debug("Clock subscription stopped")
}

// Subscribed reports whether a subscription is active.
func (s *Service) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
