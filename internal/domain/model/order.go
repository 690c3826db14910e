package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderTTL is how long a pickup order stays collectable after creation.
const OrderTTL = 24 * time.Hour

// OrderStatus describes pickup order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// LiveStatuses lists statuses of orders that can still be collected.
var LiveStatuses = []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady}

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusReady, OrderStatusCancelled, OrderStatusExpired},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled, OrderStatusExpired},
	OrderStatusReady:     {OrderStatusPickedUp, OrderStatusCancelled, OrderStatusExpired},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusPickedUp, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// IsLive reports whether the order in this status may still change.
func (s OrderStatus) IsLive() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal is the negation of IsLive for known statuses.
func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && !s.IsLive()
}

// CountsTowardsSlot reports whether an order in this status occupies its scheduled slot.
// Only cancelled and picked-up orders free their slot; expired orders keep counting. An order
// can only be booked into a slot that starts before it expires, so by then the slot has begun.
func (s OrderStatus) CountsTowardsSlot() bool {
	return s != OrderStatusCancelled && s != OrderStatusPickedUp
}

// CanTransition reports whether from -> to is an edge of the order state machine.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LineItem is a cart line supplied by the catalog when the order is placed.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Notes     string          `json:"notes,omitempty"`
}

// CustomerInfo carries contact details of the person collecting the order.
type CustomerInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	IDDocument string `json:"id_document,omitempty"`
}

// PickupOrder is an order awaiting collection at a store.
type PickupOrder struct {
	ID                     string
	PickupCode             string
	StoreID                string
	UserID                 int64
	Items                  []LineItem
	Customer               CustomerInfo
	ScheduledTime          *time.Time
	Notes                  string
	PreparationTimeMinutes int
	ActualReadyTime        *time.Time
	Status                 OrderStatus
	Total                  decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ExpiresAt              time.Time
	Notifications          NotificationFlags
}

// IsExpired reports whether a live order has outlived its pickup window.
func (o PickupOrder) IsExpired(now time.Time) bool {
	return o.Status.IsLive() && now.After(o.ExpiresAt)
}

// EffectiveStatus returns the stored status with lazy expiration applied.
func (o PickupOrder) EffectiveStatus(now time.Time) OrderStatus {
	if o.IsExpired(now) {
		return OrderStatusExpired
	}
	return o.Status
}

// ItemCount sums quantities over all lines.
func (o PickupOrder) ItemCount() int {
	return CountItems(o.Items)
}

// CountItems sums quantities over the given lines.
func CountItems(items []LineItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Clone returns a deep copy of the order.
func (o PickupOrder) Clone() PickupOrder {
	c := o
	c.Items = append([]LineItem(nil), o.Items...)
	if o.ScheduledTime != nil {
		t := *o.ScheduledTime
		c.ScheduledTime = &t
	}
	if o.ActualReadyTime != nil {
		t := *o.ActualReadyTime
		c.ActualReadyTime = &t
	}
	return c
}

// Page bounds list queries.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize applies default and maximum limits.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// OrderDraft is what the cart collaborator supplies to place a pickup order.
type OrderDraft struct {
	StoreID       string
	UserID        int64
	Items         []LineItem
	Customer      CustomerInfo
	Total         decimal.Decimal
	ScheduledTime *time.Time
	Notes         string
}
