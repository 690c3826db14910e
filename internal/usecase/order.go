package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/domain/repository"
)

const (
	// maxCodeAttempts bounds pickup code regeneration when a code is already held by a live order.
	maxCodeAttempts = 5

	baseItemAllowance   = 5
	minutesPerExtraItem = 2
)

// OrderUseCase is the pickup order ledger: creation, status transitions, expiry and code verification.
type OrderUseCase struct {
	orders repository.OrderRepository
	stores repository.StoreRepository
	slots  *SlotUseCase
	logger *slog.Logger

	now   func() time.Time
	newID func() string
	codes CodeGenerator
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, stores repository.StoreRepository, slots *SlotUseCase, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders: orders,
		stores: stores,
		slots:  slots,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		codes:  RandomPickupCode,
	}
}

// EstimateTime returns the preparation estimate in minutes for itemCount items at the store.
func (u *OrderUseCase) EstimateTime(ctx context.Context, storeID string, itemCount int) (int, error) {
	store, err := u.stores.GetByID(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return estimateMinutes(*store, itemCount), nil
}

func estimateMinutes(store model.Store, itemCount int) int {
	minutes := store.EstimatedPickupTimeMinutes
	if extra := itemCount - baseItemAllowance; extra > 0 {
		minutes += extra * minutesPerExtraItem
	}
	return min(minutes, store.MaxPickupHours()*60)
}

// Create places a new pending order with a fresh pickup code.
func (u *OrderUseCase) Create(ctx context.Context, in model.OrderDraft) (*model.PickupOrder, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	store, err := u.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if !store.AcceptsPickup() {
		return nil, domainErrors.ErrStoreUnavailable
	}

	now := u.now()
	var slot *repository.SlotReservation
	if in.ScheduledTime != nil {
		if slot, err = u.slots.reservation(*store, *in.ScheduledTime, now); err != nil {
			return nil, err
		}
	}

	order := &model.PickupOrder{
		ID:                     u.newID(),
		StoreID:                store.ID,
		UserID:                 in.UserID,
		Items:                  append([]model.LineItem(nil), in.Items...),
		Customer:               in.Customer,
		ScheduledTime:          in.ScheduledTime,
		Notes:                  strings.TrimSpace(in.Notes),
		PreparationTimeMinutes: estimateMinutes(*store, model.CountItems(in.Items)),
		Status:                 model.OrderStatusPending,
		Total:                  in.Total,
		CreatedAt:              now,
		UpdatedAt:              now,
		ExpiresAt:              now.Add(model.OrderTTL),
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := u.codes()
		if err != nil {
			return nil, fmt.Errorf("generate pickup code: %w", err)
		}
		order.PickupCode = code

		err = u.orders.Create(ctx, order, slot)
		if err == nil {
			u.logger.Info("pickup order created",
				slog.String("order_id", order.ID),
				slog.String("store_id", order.StoreID),
				slog.Int("preparation_minutes", order.PreparationTimeMinutes),
			)
			return order, nil
		}
		if !errors.Is(err, domainErrors.ErrCodeConflict) {
			return nil, err
		}
		u.logger.Debug("pickup code collision", slog.String("order_id", order.ID), slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("issue pickup code after %d attempts: %w", maxCodeAttempts, domainErrors.ErrCodeConflict)
}

func validateOrderInput(in model.OrderDraft) error {
	switch {
	case strings.TrimSpace(in.StoreID) == "":
		return fmt.Errorf("%w: store id is required", domainErrors.ErrInvalidOrder)
	case in.UserID <= 0:
		return fmt.Errorf("%w: user id is required", domainErrors.ErrInvalidOrder)
	case len(in.Items) == 0:
		return fmt.Errorf("%w: order has no items", domainErrors.ErrInvalidOrder)
	case in.Total.IsNegative():
		return fmt.Errorf("%w: negative total", domainErrors.ErrInvalidOrder)
	}
	for i, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Price.IsNegative() {
			return fmt.Errorf("%w: bad line item %d", domainErrors.ErrInvalidOrder, i)
		}
	}
	return nil
}

// Cancel moves a live order to cancelled. Cancelling an already cancelled order succeeds.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID string) (*model.PickupOrder, error) {
	return u.transition(ctx, orderID, model.OrderStatusCancelled)
}

// MarkPreparing moves a pending order to preparing.
func (u *OrderUseCase) MarkPreparing(ctx context.Context, orderID string) (*model.PickupOrder, error) {
	return u.transition(ctx, orderID, model.OrderStatusPreparing)
}

// MarkReady moves the order to ready and stamps the actual ready time.
func (u *OrderUseCase) MarkReady(ctx context.Context, orderID string) (*model.PickupOrder, error) {
	return u.transition(ctx, orderID, model.OrderStatusReady)
}

// MarkPickedUp completes a ready order.
func (u *OrderUseCase) MarkPickedUp(ctx context.Context, orderID string) (*model.PickupOrder, error) {
	return u.transition(ctx, orderID, model.OrderStatusPickedUp)
}

// Expire persists the expired status of a live order whose expiry has passed.
func (u *OrderUseCase) Expire(ctx context.Context, orderID string) (*model.PickupOrder, error) {
	return u.transition(ctx, orderID, model.OrderStatusExpired)
}

func (u *OrderUseCase) transition(ctx context.Context, orderID string, to model.OrderStatus) (*model.PickupOrder, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if to == model.OrderStatusCancelled && order.Status == model.OrderStatusCancelled {
		return order, nil
	}
	if expired := order.IsExpired(now); expired != (to == model.OrderStatusExpired) {
		if expired {
			return nil, domainErrors.ErrExpired
		}
		return nil, domainErrors.ErrInvalidTransition
	}
	if !model.CanTransition(order.Status, to) {
		return nil, domainErrors.ErrInvalidTransition
	}

	change := repository.StatusChange{OrderID: order.ID, From: order.Status, To: to, At: now}
	if to == model.OrderStatusReady {
		change.ReadyAt = &now
	}
	updated, err := u.orders.UpdateStatus(ctx, change)
	if err != nil {
		return nil, err
	}

	u.logger.Info("pickup order status changed",
		slog.String("order_id", order.ID),
		slog.String("from", string(change.From)),
		slog.String("to", string(to)),
	)
	return updated, nil
}

// VerifyCode returns the order holding code when it is ready for pickup.
// Every other outcome, including expiry, is reported as ErrInvalidCode.
func (u *OrderUseCase) VerifyCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	order, err := u.StaffVerifyCode(ctx, code)
	if errors.Is(err, domainErrors.ErrExpired) {
		return nil, domainErrors.ErrInvalidCode
	}
	return order, err
}

// StaffVerifyCode behaves like VerifyCode but reports expired orders with ErrExpired.
func (u *OrderUseCase) StaffVerifyCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != PickupCodeLength {
		return nil, domainErrors.ErrInvalidCode
	}

	order, err := u.orders.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidCode
		}
		return nil, err
	}

	switch {
	case order.IsExpired(u.now()) || order.Status == model.OrderStatusExpired:
		return nil, domainErrors.ErrExpired
	case order.Status != model.OrderStatusReady:
		return nil, domainErrors.ErrInvalidCode
	}
	return order, nil
}

// Get returns an order with its effective status.
func (u *OrderUseCase) Get(ctx context.Context, orderID string) (*model.PickupOrder, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Status = order.EffectiveStatus(u.now())
	return order, nil
}

// GetForUser returns an order owned by userID. Orders of other users are reported as not found.
func (u *OrderUseCase) GetForUser(ctx context.Context, userID int64, orderID string) (*model.PickupOrder, error) {
	order, err := u.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ByUser lists the user's orders, newest first.
func (u *OrderUseCase) ByUser(ctx context.Context, userID int64, page model.Page) ([]model.PickupOrder, error) {
	orders, err := u.orders.ListByUser(ctx, userID, page.Normalize())
	return u.effective(orders, err)
}

// ByStore lists the store's orders, newest first.
func (u *OrderUseCase) ByStore(ctx context.Context, storeID string, page model.Page) ([]model.PickupOrder, error) {
	orders, err := u.orders.ListByStore(ctx, storeID, page.Normalize())
	return u.effective(orders, err)
}

// ByStatus lists orders whose effective status is status.
func (u *OrderUseCase) ByStatus(ctx context.Context, status model.OrderStatus, page model.Page) ([]model.PickupOrder, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidOrder, status)
	}
	filter := repository.StatusFilter{Status: status, Now: u.now()}
	orders, err := u.orders.ListByStatus(ctx, filter, page.Normalize())
	return u.effective(orders, err)
}

func (u *OrderUseCase) effective(orders []model.PickupOrder, err error) ([]model.PickupOrder, error) {
	if err != nil {
		return nil, err
	}
	now := u.now()
	for i := range orders {
		orders[i].Status = orders[i].EffectiveStatus(now)
	}
	return orders, nil
}

// PendingNotifications returns up to limit orders with lifecycle notifications due.
func (u *OrderUseCase) PendingNotifications(ctx context.Context, limit int, reminderDelay time.Duration) ([]model.NotificationTask, error) {
	now := u.now()
	orders, err := u.orders.SelectAwaitingNotification(ctx, repository.NotificationQuery{
		Now:            now,
		ReminderCutoff: now.Add(-reminderDelay),
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]model.NotificationTask, 0, len(orders))
	for _, o := range orders {
		due := o.DueNotifications(now, reminderDelay)
		if len(due) == 0 {
			continue
		}
		o.Status = o.EffectiveStatus(now)
		tasks = append(tasks, model.NotificationTask{Order: o, Due: due})
	}
	return tasks, nil
}

// MarkNotified records that notification n was delivered for the order.
func (u *OrderUseCase) MarkNotified(ctx context.Context, orderID string, n model.Notification) error {
	return u.orders.MarkNotified(ctx, orderID, n)
}
