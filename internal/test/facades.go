package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
)

// StoreFacadeStub serves store lookups for handler tests.
type StoreFacadeStub struct {
	StoresFn   func(context.Context) ([]model.Store, error)
	StoreFn    func(context.Context, string) (*model.Store, error)
	NearbyFn   func(context.Context, model.Point, float64) ([]model.StoreDistance, error)
	OpenFn     func(context.Context, string, time.Time) (bool, error)
	SlotsFn    func(context.Context, string, time.Time) ([]model.PickupTimeSlot, error)
	EstimateFn func(context.Context, string, int) (int, error)
	Loc        *time.Location
}

// Stores returns no stores unless overridden.
func (s StoreFacadeStub) Stores(ctx context.Context) ([]model.Store, error) {
	if s.StoresFn != nil {
		return s.StoresFn(ctx)
	}
	return nil, nil
}

// Store reports not found unless overridden.
func (s StoreFacadeStub) Store(ctx context.Context, id string) (*model.Store, error) {
	if s.StoreFn != nil {
		return s.StoreFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// NearbyStores delegates to override.
func (s StoreFacadeStub) NearbyStores(ctx context.Context, point model.Point, radiusKm float64) ([]model.StoreDistance, error) {
	if s.NearbyFn != nil {
		return s.NearbyFn(ctx, point, radiusKm)
	}
	return nil, nil
}

// StoreOpen reports an open store by default.
func (s StoreFacadeStub) StoreOpen(ctx context.Context, id string, at time.Time) (bool, error) {
	if s.OpenFn != nil {
		return s.OpenFn(ctx, id, at)
	}
	return true, nil
}

// Slots delegates to override.
func (s StoreFacadeStub) Slots(ctx context.Context, id string, date time.Time) ([]model.PickupTimeSlot, error) {
	if s.SlotsFn != nil {
		return s.SlotsFn(ctx, id, date)
	}
	return nil, nil
}

// EstimateTime returns 30 minutes by default.
func (s StoreFacadeStub) EstimateTime(ctx context.Context, id string, items int) (int, error) {
	if s.EstimateFn != nil {
		return s.EstimateFn(ctx, id, items)
	}
	return 30, nil
}

// Location defaults to UTC.
func (s StoreFacadeStub) Location() *time.Location {
	if s.Loc != nil {
		return s.Loc
	}
	return time.UTC
}

// OrderFacadeStub simulates customer order operations.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, model.OrderDraft) (*model.PickupOrder, error)
	ListFn   func(context.Context, int64, model.Page) ([]model.PickupOrder, error)
	GetFn    func(context.Context, int64, string) (*model.PickupOrder, error)
	CancelFn func(context.Context, int64, string) (*model.PickupOrder, error)
	VerifyFn func(context.Context, string) (*model.PickupOrder, error)
}

// PlaceOrder echoes the draft as a pending order unless overridden.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, draft model.OrderDraft) (*model.PickupOrder, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, draft)
	}
	return &model.PickupOrder{
		ID:            "order-1",
		PickupCode:    "ABCD1234",
		StoreID:       draft.StoreID,
		UserID:        draft.UserID,
		Items:         draft.Items,
		Customer:      draft.Customer,
		ScheduledTime: draft.ScheduledTime,
		Status:        model.OrderStatusPending,
		Total:         draft.Total,
	}, nil
}

// UserOrders delegates to override.
func (s OrderFacadeStub) UserOrders(ctx context.Context, userID int64, page model.Page) ([]model.PickupOrder, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID, page)
	}
	return nil, nil
}

// UserOrder reports not found unless overridden.
func (s OrderFacadeStub) UserOrder(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

// CancelUserOrder reports not found unless overridden.
func (s OrderFacadeStub) CancelUserOrder(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

// VerifyCode rejects every code unless overridden.
func (s OrderFacadeStub) VerifyCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, code)
	}
	return nil, domainErrors.ErrInvalidCode
}

// StaffFacadeStub simulates staff order operations.
type StaffFacadeStub struct {
	ByStatusFn    func(context.Context, model.OrderStatus, model.Page) ([]model.PickupOrder, error)
	ByStoreFn     func(context.Context, string, model.Page) ([]model.PickupOrder, error)
	AdvanceFn     func(context.Context, string, model.OrderStatus) (*model.PickupOrder, error)
	StaffVerifyFn func(context.Context, string) (*model.PickupOrder, error)
}

// OrdersByStatus delegates to override.
func (s StaffFacadeStub) OrdersByStatus(ctx context.Context, status model.OrderStatus, page model.Page) ([]model.PickupOrder, error) {
	if s.ByStatusFn != nil {
		return s.ByStatusFn(ctx, status, page)
	}
	return nil, nil
}

// StoreOrders delegates to override.
func (s StaffFacadeStub) StoreOrders(ctx context.Context, storeID string, page model.Page) ([]model.PickupOrder, error) {
	if s.ByStoreFn != nil {
		return s.ByStoreFn(ctx, storeID, page)
	}
	return nil, nil
}

// AdvanceOrder returns the order in the requested status unless overridden.
func (s StaffFacadeStub) AdvanceOrder(ctx context.Context, orderID string, to model.OrderStatus) (*model.PickupOrder, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, orderID, to)
	}
	return &model.PickupOrder{ID: orderID, Status: to}, nil
}

// StaffVerifyCode rejects every code unless overridden.
func (s StaffFacadeStub) StaffVerifyCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	if s.StaffVerifyFn != nil {
		return s.StaffVerifyFn(ctx, code)
	}
	return nil, domainErrors.ErrInvalidCode
}

// PickupFacadeStub aggregates facade dependencies for HTTP layer tests.
type PickupFacadeStub struct {
	AuthFacadeStub
	StoreFacadeStub
	OrderFacadeStub
	StaffFacadeStub
	HealthErr error
}

// HealthCheck returns HealthErr.
func (s PickupFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}

// MarkedNotification records a MarkNotified call.
type MarkedNotification struct {
	OrderID      string
	Notification model.Notification
}

// NotificationSourceStub hands out prepared batches of notification tasks.
type NotificationSourceStub struct {
	mu sync.Mutex

	Batches [][]model.NotificationTask
	Marked  []MarkedNotification
	FetchFn func(context.Context, int, time.Duration) ([]model.NotificationTask, error)
	MarkFn  func(context.Context, string, model.Notification) error
}

// PendingNotifications returns the next configured batch.
func (s *NotificationSourceStub) PendingNotifications(ctx context.Context, limit int, reminderDelay time.Duration) ([]model.NotificationTask, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, limit, reminderDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// MarkNotified records the call.
func (s *NotificationSourceStub) MarkNotified(ctx context.Context, orderID string, n model.Notification) error {
	if s.MarkFn != nil {
		if err := s.MarkFn(ctx, orderID, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.Marked = append(s.Marked, MarkedNotification{OrderID: orderID, Notification: n})
	s.mu.Unlock()
	return nil
}

// MarkedCalls returns a snapshot of recorded MarkNotified calls.
func (s *NotificationSourceStub) MarkedCalls() []MarkedNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MarkedNotification(nil), s.Marked...)
}
