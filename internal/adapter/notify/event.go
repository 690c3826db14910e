package notify

import (
	"time"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

// Event is the payload published for every lifecycle notification of a pickup order.
type Event struct {
	Type          model.Notification `json:"type"`
	OrderID       string             `json:"order_id"`
	StoreID       string             `json:"store_id"`
	UserID        int64              `json:"user_id"`
	Status        model.OrderStatus  `json:"status"`
	PickupCode    string             `json:"pickup_code,omitempty"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	ScheduledTime *time.Time         `json:"scheduled_time,omitempty"`
	ReadyAt       *time.Time         `json:"ready_at,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// NewEvent builds the event for notification n of order. The pickup code is only
// included once the order can be collected.
func NewEvent(order model.PickupOrder, n model.Notification, at time.Time) Event {
	ev := Event{
		Type:          n,
		OrderID:       order.ID,
		StoreID:       order.StoreID,
		UserID:        order.UserID,
		Status:        order.Status,
		CustomerName:  order.Customer.Name,
		CustomerEmail: order.Customer.Email,
		CustomerPhone: order.Customer.Phone,
		ScheduledTime: order.ScheduledTime,
		ReadyAt:       order.ActualReadyTime,
		OccurredAt:    at.UTC(),
	}
	if order.Status == model.OrderStatusReady {
		ev.PickupCode = order.PickupCode
	}
	return ev
}
