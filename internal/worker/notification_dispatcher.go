package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/storepickup/internal/adapter/notify"
	"github.com/polkiloo/storepickup/internal/domain/model"
)

// NotificationSource exposes the subset of application functionality required by the dispatcher.
type NotificationSource interface {
	PendingNotifications(ctx context.Context, limit int, reminderDelay time.Duration) ([]model.NotificationTask, error)
	MarkNotified(ctx context.Context, orderID string, n model.Notification) error
}

// NotificationDispatcher polls orders with due lifecycle notifications and delivers them concurrently.
// A notification flag is set only after the notifier accepted the event.
type NotificationDispatcher struct {
	source        NotificationSource
	notifier      notify.Notifier
	pollInterval  time.Duration
	batchSize     int
	workers       int
	reminderDelay time.Duration
	logger        *slog.Logger
	now           func() time.Time

	jobs     chan model.NotificationTask
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewNotificationDispatcher constructs the dispatcher worker pool.
func NewNotificationDispatcher(source NotificationSource, notifier notify.Notifier, pollInterval time.Duration, batchSize, workers int, reminderDelay time.Duration, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &NotificationDispatcher{
		source:        source,
		notifier:      notifier,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		workers:       workers,
		reminderDelay: reminderDelay,
		logger:        logger,
		now:           time.Now,
		jobs:          make(chan model.NotificationTask, batchSize*workers),
		inflight:      make(map[string]struct{}),
	}
}

// Start launches background delivery.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

// fetchAndDispatch skips orders that were queued when the batch was read: their Due list may
// predate flags the in-flight delivery is about to set.
func (d *NotificationDispatcher) fetchAndDispatch(ctx context.Context) {
	busy := d.snapshotInflight()
	tasks, err := d.source.PendingNotifications(ctx, d.batchSize, d.reminderDelay)
	if err != nil {
		d.logger.Error("fetch pending notifications failed", slog.String("error", err.Error()))
		return
	}
	for _, task := range tasks {
		if _, stale := busy[task.Order.ID]; stale || !d.claim(task.Order.ID) {
			continue
		}
		select {
		case <-ctx.Done():
			d.release(task.Order.ID)
			return
		case d.jobs <- task:
		}
	}
}

// claim marks the order as queued so later polls do not deliver the same notification twice.
func (d *NotificationDispatcher) claim(orderID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[orderID]; busy {
		return false
	}
	d.inflight[orderID] = struct{}{}
	return true
}

func (d *NotificationDispatcher) snapshotInflight() map[string]struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	busy := make(map[string]struct{}, len(d.inflight))
	for id := range d.inflight {
		busy[id] = struct{}{}
	}
	return busy
}

func (d *NotificationDispatcher) release(orderID string) {
	d.mu.Lock()
	delete(d.inflight, orderID)
	d.mu.Unlock()
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-d.jobs:
			if !ok {
				return
			}
			d.deliver(ctx, task)
			d.release(task.Order.ID)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, task model.NotificationTask) {
	for _, n := range task.Due {
		ev := notify.NewEvent(task.Order, n, d.now())
		if err := d.notifier.Notify(ctx, ev); err != nil {
			d.logger.Error("notification delivery failed",
				slog.String("order_id", task.Order.ID),
				slog.String("type", string(n)),
				slog.String("error", err.Error()),
			)
			return
		}
		if err := d.source.MarkNotified(ctx, task.Order.ID, n); err != nil {
			d.logger.Error("mark notification sent failed",
				slog.String("order_id", task.Order.ID),
				slog.String("type", string(n)),
				slog.String("error", err.Error()),
			)
			return
		}
	}
}
