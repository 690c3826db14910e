package model

import "time"

// Notification identifies a lifecycle message sent to the customer.
type Notification string

const (
	NotificationOrderReceived Notification = "order_received"
	NotificationPreparing     Notification = "preparing"
	NotificationReady         Notification = "ready"
	NotificationReminder      Notification = "reminder"
)

// NotificationFlags records which lifecycle notifications were delivered. Flags are write-once.
type NotificationFlags struct {
	OrderReceived bool
	Preparing     bool
	Ready         bool
	ReminderSent  bool
}

// Sent reports whether n was already delivered.
func (f NotificationFlags) Sent(n Notification) bool {
	switch n {
	case NotificationOrderReceived:
		return f.OrderReceived
	case NotificationPreparing:
		return f.Preparing
	case NotificationReady:
		return f.Ready
	case NotificationReminder:
		return f.ReminderSent
	}
	return false
}

// Mark sets the flag for n. It never clears a flag.
func (f *NotificationFlags) Mark(n Notification) {
	switch n {
	case NotificationOrderReceived:
		f.OrderReceived = true
	case NotificationPreparing:
		f.Preparing = true
	case NotificationReady:
		f.Ready = true
	case NotificationReminder:
		f.ReminderSent = true
	}
}

// DueNotifications lists notifications the order qualifies for that have not been sent yet.
// A reminder becomes due once the order has waited in ready for reminderDelay.
func (o PickupOrder) DueNotifications(now time.Time, reminderDelay time.Duration) []Notification {
	status := o.EffectiveStatus(now)
	if !status.IsLive() {
		return nil
	}

	var due []Notification
	if !o.Notifications.OrderReceived {
		due = append(due, NotificationOrderReceived)
	}
	if status == OrderStatusPreparing && !o.Notifications.Preparing {
		due = append(due, NotificationPreparing)
	}
	if status == OrderStatusReady {
		if !o.Notifications.Ready {
			due = append(due, NotificationReady)
		}
		if !o.Notifications.ReminderSent && o.ActualReadyTime != nil && !now.Before(o.ActualReadyTime.Add(reminderDelay)) {
			due = append(due, NotificationReminder)
		}
	}
	return due
}

// NotificationTask is an order together with the notifications currently due for it.
type NotificationTask struct {
	Order PickupOrder
	Due   []Notification
}
