package app

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/usecase"
)

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PickupFacade exposes the use cases to transports and background workers.
type PickupFacade struct {
	auth   *usecase.AuthUseCase
	stores *usecase.StoreUseCase
	slots  *usecase.SlotUseCase
	orders *usecase.OrderUseCase
	health HealthChecker
}

func NewPickupFacade(auth *usecase.AuthUseCase, stores *usecase.StoreUseCase, slots *usecase.SlotUseCase, orders *usecase.OrderUseCase, health HealthChecker) *PickupFacade {
	return &PickupFacade{auth: auth, stores: stores, slots: slots, orders: orders, health: health}
}

func (f *PickupFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *PickupFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *PickupFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *PickupFacade) Stores(ctx context.Context) ([]model.Store, error) {
	return f.stores.ListAvailable(ctx)
}

func (f *PickupFacade) Store(ctx context.Context, id string) (*model.Store, error) {
	return f.stores.GetByID(ctx, id)
}

func (f *PickupFacade) NearbyStores(ctx context.Context, point model.Point, radiusKm float64) ([]model.StoreDistance, error) {
	return f.stores.Nearby(ctx, point, radiusKm)
}

func (f *PickupFacade) StoreOpen(ctx context.Context, id string, at time.Time) (bool, error) {
	return f.stores.IsOpen(ctx, id, at)
}

func (f *PickupFacade) Slots(ctx context.Context, id string, date time.Time) ([]model.PickupTimeSlot, error) {
	return f.slots.AvailableSlots(ctx, id, date)
}

func (f *PickupFacade) EstimateTime(ctx context.Context, id string, items int) (int, error) {
	return f.orders.EstimateTime(ctx, id, items)
}

// Location is the time zone store hours and slot dates are expressed in.
func (f *PickupFacade) Location() *time.Location {
	return f.stores.Location()
}

func (f *PickupFacade) PlaceOrder(ctx context.Context, draft model.OrderDraft) (*model.PickupOrder, error) {
	return f.orders.Create(ctx, draft)
}

func (f *PickupFacade) UserOrders(ctx context.Context, userID int64, page model.Page) ([]model.PickupOrder, error) {
	return f.orders.ByUser(ctx, userID, page)
}

func (f *PickupFacade) UserOrder(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error) {
	return f.orders.GetForUser(ctx, userID, orderID)
}

// CancelUserOrder cancels an order on behalf of its owner.
func (f *PickupFacade) CancelUserOrder(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error) {
	if _, err := f.orders.GetForUser(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return f.orders.Cancel(ctx, orderID)
}

func (f *PickupFacade) VerifyCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	return f.orders.VerifyCode(ctx, code)
}

func (f *PickupFacade) StaffVerifyCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	return f.orders.StaffVerifyCode(ctx, code)
}

func (f *PickupFacade) OrdersByStatus(ctx context.Context, status model.OrderStatus, page model.Page) ([]model.PickupOrder, error) {
	return f.orders.ByStatus(ctx, status, page)
}

func (f *PickupFacade) StoreOrders(ctx context.Context, storeID string, page model.Page) ([]model.PickupOrder, error) {
	return f.orders.ByStore(ctx, storeID, page)
}

// AdvanceOrder moves an order to status to through the matching ledger operation.
func (f *PickupFacade) AdvanceOrder(ctx context.Context, orderID string, to model.OrderStatus) (*model.PickupOrder, error) {
	switch to {
	case model.OrderStatusPreparing:
		return f.orders.MarkPreparing(ctx, orderID)
	case model.OrderStatusReady:
		return f.orders.MarkReady(ctx, orderID)
	case model.OrderStatusPickedUp:
		return f.orders.MarkPickedUp(ctx, orderID)
	case model.OrderStatusCancelled:
		return f.orders.Cancel(ctx, orderID)
	case model.OrderStatusExpired:
		return f.orders.Expire(ctx, orderID)
	}
	return nil, domainErrors.ErrInvalidTransition
}

func (f *PickupFacade) PendingNotifications(ctx context.Context, limit int, reminderDelay time.Duration) ([]model.NotificationTask, error) {
	return f.orders.PendingNotifications(ctx, limit, reminderDelay)
}

func (f *PickupFacade) MarkNotified(ctx context.Context, orderID string, n model.Notification) error {
	return f.orders.MarkNotified(ctx, orderID, n)
}

func (f *PickupFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
