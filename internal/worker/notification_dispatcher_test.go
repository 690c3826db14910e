package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/storepickup/internal/adapter/notify"
	"github.com/polkiloo/storepickup/internal/domain/model"
	testhelpers "github.com/polkiloo/storepickup/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for dispatcher")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewNotificationDispatcherDefaults(t *testing.T) {
	d := NewNotificationDispatcher(&testhelpers.NotificationSourceStub{}, &testhelpers.NotifierStub{}, time.Second, 0, 0, time.Hour, discardLogger())
	if d.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", d.batchSize)
	}
	if d.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", d.workers)
	}
}

func TestDispatcherDeliversAndMarks(t *testing.T) {
	order := model.PickupOrder{ID: "o1", PickupCode: "ABCD1234", Status: model.OrderStatusReady}
	source := &testhelpers.NotificationSourceStub{Batches: [][]model.NotificationTask{{
		{Order: order, Due: []model.Notification{model.NotificationOrderReceived, model.NotificationReady}},
	}}}
	notifier := &testhelpers.NotifierStub{}

	d := NewNotificationDispatcher(source, notifier, 5*time.Millisecond, 4, 2, time.Hour, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	waitFor(t, func() bool { return len(source.MarkedCalls()) == 2 })
	d.Stop()

	events := notifier.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != model.NotificationOrderReceived || events[1].Type != model.NotificationReady {
		t.Fatalf("unexpected event order %+v", events)
	}
	if events[1].PickupCode != "ABCD1234" {
		t.Fatalf("ready event should carry the pickup code")
	}
	marked := source.MarkedCalls()
	if marked[0].OrderID != "o1" || marked[1].Notification != model.NotificationReady {
		t.Fatalf("unexpected marks %+v", marked)
	}
}

func TestDispatcherLeavesFlagUnsetWhenDeliveryFails(t *testing.T) {
	task := model.NotificationTask{
		Order: model.PickupOrder{ID: "o1", Status: model.OrderStatusPending},
		Due:   []model.Notification{model.NotificationOrderReceived, model.NotificationPreparing},
	}
	var polls int32
	source := &testhelpers.NotificationSourceStub{FetchFn: func(context.Context, int, time.Duration) ([]model.NotificationTask, error) {
		if atomic.AddInt32(&polls, 1) == 1 {
			return nil, errors.New("db down")
		}
		return []model.NotificationTask{task}, nil
	}}
	var attempts int32
	notifier := &testhelpers.NotifierStub{NotifyFn: func(context.Context, notify.Event) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("broker unavailable")
	}}

	d := NewNotificationDispatcher(source, notifier, 5*time.Millisecond, 1, 1, time.Hour, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	waitFor(t, func() bool { return atomic.LoadInt32(&attempts) >= 2 })
	d.Stop()

	if len(source.MarkedCalls()) != 0 {
		t.Fatalf("flags must stay unset after failed delivery: %+v", source.MarkedCalls())
	}
}

func TestDispatcherStopsAfterMarkFailure(t *testing.T) {
	source := &testhelpers.NotificationSourceStub{
		Batches: [][]model.NotificationTask{{{
			Order: model.PickupOrder{ID: "o1"},
			Due:   []model.Notification{model.NotificationOrderReceived, model.NotificationPreparing},
		}}},
		MarkFn: func(context.Context, string, model.Notification) error { return errors.New("write failed") },
	}
	notifier := &testhelpers.NotifierStub{}

	d := NewNotificationDispatcher(source, notifier, 5*time.Millisecond, 1, 1, time.Hour, discardLogger())
	d.Start(context.Background())
	waitFor(t, func() bool { return len(notifier.Events()) > 0 })
	d.Stop()

	if got := len(notifier.Events()); got != 1 {
		t.Fatalf("expected delivery to stop after the failed mark, got %d events", got)
	}
}

func TestDispatcherSkipsOrdersInFlight(t *testing.T) {
	d := NewNotificationDispatcher(&testhelpers.NotificationSourceStub{}, &testhelpers.NotifierStub{}, time.Second, 1, 1, time.Hour, discardLogger())
	if !d.claim("o1") {
		t.Fatal("first claim should succeed")
	}
	if d.claim("o1") {
		t.Fatal("second claim should be rejected while in flight")
	}
	d.release("o1")
	if !d.claim("o1") {
		t.Fatal("claim should succeed after release")
	}
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewNotificationDispatcher(&testhelpers.NotificationSourceStub{}, &testhelpers.NotifierStub{}, time.Millisecond, 1, 1, time.Hour, discardLogger())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}

func TestDispatcherSkipsOrdersQueuedDuringFetch(t *testing.T) {
	task := model.NotificationTask{
		Order: model.PickupOrder{ID: "o1", Status: model.OrderStatusPending},
		Due:   []model.Notification{model.NotificationOrderReceived},
	}
	var d *NotificationDispatcher
	source := &testhelpers.NotificationSourceStub{FetchFn: func(context.Context, int, time.Duration) ([]model.NotificationTask, error) {
		// the worker holding o1 finishes while this batch is being read
		d.release("o1")
		return []model.NotificationTask{task}, nil
	}}
	d = NewNotificationDispatcher(source, &testhelpers.NotifierStub{}, time.Second, 4, 1, time.Hour, discardLogger())

	if !d.claim("o1") {
		t.Fatal("expected first claim to succeed")
	}
	d.fetchAndDispatch(context.Background())
	if got := len(d.jobs); got != 0 {
		t.Fatalf("order queued during fetch must not be re-dispatched from a stale batch, got %d jobs", got)
	}

	d.fetchAndDispatch(context.Background())
	if got := len(d.jobs); got != 1 {
		t.Fatalf("expected the order on the next poll, got %d jobs", got)
	}
}
