package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemPayload is one cart line.
type LineItemPayload struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
	Notes     string          `json:"notes,omitempty"`
}

// CustomerPayload identifies who collects the order.
type CustomerPayload struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	IDDocument string `json:"id_document,omitempty"`
}

// CreateOrderRequest places a pickup order. The pickup time is either an RFC 3339 instant in
// scheduled_time or a store local pickup_date plus pickup_time.
type CreateOrderRequest struct {
	StoreID       string            `json:"store_id" binding:"required"`
	Items         []LineItemPayload `json:"items" binding:"required,min=1,dive"`
	Customer      CustomerPayload   `json:"customer"`
	Total         decimal.Decimal   `json:"total"`
	ScheduledTime *time.Time        `json:"scheduled_time,omitempty"`
	PickupDate    string            `json:"pickup_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	PickupTime    string            `json:"pickup_time,omitempty" binding:"omitempty,hhmm"`
	Notes         string            `json:"notes,omitempty" binding:"max=500"`
}

// VerifyRequest carries a pickup code presented at the counter.
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// NotificationsResponse shows which lifecycle notifications were delivered.
type NotificationsResponse struct {
	OrderReceived bool `json:"order_received"`
	Preparing     bool `json:"preparing"`
	Ready         bool `json:"ready"`
	ReminderSent  bool `json:"reminder_sent"`
}

// OrderResponse describes a pickup order.
type OrderResponse struct {
	ID                     string                 `json:"id"`
	PickupCode             string                 `json:"pickup_code,omitempty"`
	StoreID                string                 `json:"store_id"`
	Items                  []LineItemPayload      `json:"items"`
	Customer               CustomerPayload        `json:"customer"`
	ScheduledTime          *time.Time             `json:"scheduled_time,omitempty"`
	Notes                  string                 `json:"notes,omitempty"`
	PreparationTimeMinutes int                    `json:"preparation_time_minutes"`
	ActualReadyTime        *time.Time             `json:"actual_ready_time,omitempty"`
	Status                 string                 `json:"status"`
	Total                  decimal.Decimal        `json:"total"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	ExpiresAt              time.Time              `json:"expires_at"`
	Notifications          *NotificationsResponse `json:"notifications,omitempty"`
}
