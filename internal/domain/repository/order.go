package repository

import (
	"context"
	"time"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

// SlotReservation guards an insert against overbooking: the order is stored only when fewer than
// Capacity slot-occupying orders exist at StoreID with a scheduled time in [Start, End).
type SlotReservation struct {
	StoreID  string
	Start    time.Time
	End      time.Time
	Capacity int
}

// StatusChange is a conditional status write applied only while the order is still in From.
type StatusChange struct {
	OrderID string
	From    model.OrderStatus
	To      model.OrderStatus
	ReadyAt *time.Time
	At      time.Time
}

// StatusFilter selects orders by effective status evaluated at Now.
type StatusFilter struct {
	Status model.OrderStatus
	Now    time.Time
}

// NotificationQuery bounds the dispatcher's polling batch.
type NotificationQuery struct {
	Now            time.Time
	ReminderCutoff time.Time
	Limit          int
}

// OrderRepository describes persistence operations with pickup orders.
type OrderRepository interface {
	// Create inserts the order. It fails with ErrCodeConflict when a live order holds the same code
	// and with ErrCapacityExceeded when the reservation is full. Both checks are atomic with the insert.
	Create(ctx context.Context, order *model.PickupOrder, slot *SlotReservation) error
	GetByID(ctx context.Context, id string) (*model.PickupOrder, error)
	// FindByCode returns the most recent order issued with the code (case-insensitive).
	FindByCode(ctx context.Context, code string) (*model.PickupOrder, error)
	ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.PickupOrder, error)
	ListByStore(ctx context.Context, storeID string, page model.Page) ([]model.PickupOrder, error)
	ListByStatus(ctx context.Context, filter StatusFilter, page model.Page) ([]model.PickupOrder, error)
	// ScheduledTimes returns scheduled times in [from, to) of slot-occupying orders at the store.
	ScheduledTimes(ctx context.Context, storeID string, from, to time.Time) ([]time.Time, error)
	// UpdateStatus applies the change; ErrInvalidTransition when the order left From concurrently.
	UpdateStatus(ctx context.Context, change StatusChange) (*model.PickupOrder, error)
	// SelectAwaitingNotification returns unexpired live orders with at least one lifecycle notification
	// pending. Ready orders qualify for the reminder only once ready at or before query.ReminderCutoff.
	SelectAwaitingNotification(ctx context.Context, query NotificationQuery) ([]model.PickupOrder, error)
	MarkNotified(ctx context.Context, orderID string, n model.Notification) error
}
