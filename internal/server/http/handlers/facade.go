package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// StoreFacade exposes the store registry, opening hours and slot availability.
type StoreFacade interface {
	Stores(ctx context.Context) ([]model.Store, error)
	Store(ctx context.Context, id string) (*model.Store, error)
	NearbyStores(ctx context.Context, point model.Point, radiusKm float64) ([]model.StoreDistance, error)
	StoreOpen(ctx context.Context, id string, at time.Time) (bool, error)
	Slots(ctx context.Context, id string, date time.Time) ([]model.PickupTimeSlot, error)
	EstimateTime(ctx context.Context, id string, items int) (int, error)
	Location() *time.Location
}

// OrderFacade encapsulates customer order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, draft model.OrderDraft) (*model.PickupOrder, error)
	UserOrders(ctx context.Context, userID int64, page model.Page) ([]model.PickupOrder, error)
	UserOrder(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error)
	CancelUserOrder(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error)
	VerifyCode(ctx context.Context, code string) (*model.PickupOrder, error)
}

// StaffFacade drives orders through fulfillment on behalf of store staff.
type StaffFacade interface {
	OrdersByStatus(ctx context.Context, status model.OrderStatus, page model.Page) ([]model.PickupOrder, error)
	StoreOrders(ctx context.Context, storeID string, page model.Page) ([]model.PickupOrder, error)
	AdvanceOrder(ctx context.Context, orderID string, to model.OrderStatus) (*model.PickupOrder, error)
	StaffVerifyCode(ctx context.Context, code string) (*model.PickupOrder, error)
}

// HealthFacade reports readiness of the backing storage.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// PickupFacade aggregates the full set of operations used across handlers.
type PickupFacade interface {
	AuthFacade
	StoreFacade
	OrderFacade
	StaffFacade
	HealthFacade
}
