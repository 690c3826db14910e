package test

import (
	"context"
	"sync"

	"github.com/polkiloo/storepickup/internal/adapter/notify"
)

// NotifierStub records published events.
type NotifierStub struct {
	mu     sync.Mutex
	events []notify.Event
	closed bool

	NotifyFn func(context.Context, notify.Event) error
}

// Notify records ev unless NotifyFn fails.
func (s *NotifierStub) Notify(ctx context.Context, ev notify.Event) error {
	if s.NotifyFn != nil {
		if err := s.NotifyFn(ctx, ev); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

// Close marks the stub closed.
func (s *NotifierStub) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Events returns a snapshot of published events.
func (s *NotifierStub) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

// Closed reports whether Close was called.
func (s *NotifierStub) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ notify.Notifier = (*NotifierStub)(nil)
