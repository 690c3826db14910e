// Package memory keeps repositories in process memory. It backs local runs without DATABASE_URI
// and gives usecase tests a storage with the same atomicity guarantees as PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/domain/repository"
)

// Storage is a mutex guarded repository factory.
type Storage struct {
	mu sync.RWMutex

	nextUserID int64
	users      map[int64]model.User
	logins     map[string]int64
	stores     map[string]model.Store
	orders     map[string]*model.PickupOrder
}

var _ repository.Factory = (*Storage)(nil)

// New creates an empty storage.
func New() *Storage {
	return &Storage{
		users:  make(map[int64]model.User),
		logins: make(map[string]int64),
		stores: make(map[string]model.Store),
		orders: make(map[string]*model.PickupOrder),
	}
}

func (s *Storage) Users() repository.UserRepository   { return (*userRepository)(s) }
func (s *Storage) Stores() repository.StoreRepository { return (*storeRepository)(s) }
func (s *Storage) Orders() repository.OrderRepository { return (*orderRepository)(s) }

// HealthCheck always succeeds.
func (s *Storage) HealthCheck(context.Context) error { return nil }

// Close is a no-op.
func (s *Storage) Close() {}

type userRepository Storage

func (r *userRepository) Create(_ context.Context, login, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logins[login]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	r.nextUserID++
	u := model.User{ID: r.nextUserID, Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[u.ID] = u
	r.logins[login] = u.ID
	return &u, nil
}

func (r *userRepository) GetByLogin(_ context.Context, login string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.logins[login]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	u := r.users[id]
	return &u, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

type storeRepository Storage

func (r *storeRepository) GetByID(_ context.Context, id string) (*model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.stores[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &st, nil
}

func (r *storeRepository) List(context.Context) ([]model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Store, 0, len(r.stores))
	for _, st := range r.stores {
		result = append(result, st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *storeRepository) Upsert(_ context.Context, store model.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stores[store.ID] = store
	return nil
}

type orderRepository Storage

func (r *orderRepository) Create(_ context.Context, order *model.PickupOrder, slot *repository.SlotReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[order.StoreID]; !ok {
		return domainErrors.ErrNotFound
	}
	if _, ok := r.orders[order.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	code := strings.ToUpper(order.PickupCode)
	for _, o := range r.orders {
		if o.Status.IsLive() && strings.ToUpper(o.PickupCode) == code {
			return domainErrors.ErrCodeConflict
		}
	}
	if slot != nil {
		booked := r.countScheduled(slot.StoreID, slot.Start, slot.End)
		if booked >= slot.Capacity {
			return domainErrors.ErrCapacityExceeded
		}
	}

	stored := order.Clone()
	r.orders[order.ID] = &stored
	return nil
}

func (r *orderRepository) countScheduled(storeID string, from, to time.Time) int {
	var n int
	for _, o := range r.orders {
		if occupies(o, storeID, from, to) {
			n++
		}
	}
	return n
}

func occupies(o *model.PickupOrder, storeID string, from, to time.Time) bool {
	if o.StoreID != storeID || o.ScheduledTime == nil || !o.Status.CountsTowardsSlot() {
		return false
	}
	t := *o.ScheduledTime
	return !t.Before(from) && t.Before(to)
}

func (r *orderRepository) GetByID(_ context.Context, id string) (*model.PickupOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	c := o.Clone()
	return &c, nil
}

func (r *orderRepository) FindByCode(_ context.Context, code string) (*model.PickupOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code = strings.ToUpper(code)
	var found *model.PickupOrder
	for _, o := range r.orders {
		if strings.ToUpper(o.PickupCode) != code {
			continue
		}
		if found == nil || o.CreatedAt.After(found.CreatedAt) {
			found = o
		}
	}
	if found == nil {
		return nil, domainErrors.ErrNotFound
	}
	c := found.Clone()
	return &c, nil
}

func (r *orderRepository) ListByUser(_ context.Context, userID int64, page model.Page) ([]model.PickupOrder, error) {
	return r.list(page, func(o *model.PickupOrder) bool { return o.UserID == userID }), nil
}

func (r *orderRepository) ListByStore(_ context.Context, storeID string, page model.Page) ([]model.PickupOrder, error) {
	return r.list(page, func(o *model.PickupOrder) bool { return o.StoreID == storeID }), nil
}

func (r *orderRepository) ListByStatus(_ context.Context, filter repository.StatusFilter, page model.Page) ([]model.PickupOrder, error) {
	return r.list(page, func(o *model.PickupOrder) bool { return o.EffectiveStatus(filter.Now) == filter.Status }), nil
}

// list returns matching orders newest first.
func (r *orderRepository) list(page model.Page, match func(*model.PickupOrder) bool) []model.PickupOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page = page.Normalize()
	var matched []model.PickupOrder
	for _, o := range r.orders {
		if match(o) {
			matched = append(matched, o.Clone())
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if page.Offset >= len(matched) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[page.Offset:end]
}

func (r *orderRepository) ScheduledTimes(_ context.Context, storeID string, from, to time.Time) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []time.Time
	for _, o := range r.orders {
		if occupies(o, storeID, from, to) {
			result = append(result, *o.ScheduledTime)
		}
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, change repository.StatusChange) (*model.PickupOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[change.OrderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != change.From {
		return nil, domainErrors.ErrInvalidTransition
	}
	o.Status = change.To
	o.UpdatedAt = change.At
	if change.ReadyAt != nil {
		t := *change.ReadyAt
		o.ActualReadyTime = &t
	}
	c := o.Clone()
	return &c, nil
}

func (r *orderRepository) SelectAwaitingNotification(_ context.Context, q repository.NotificationQuery) ([]model.PickupOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminderDelay := q.Now.Sub(q.ReminderCutoff)
	var result []model.PickupOrder
	for _, o := range r.orders {
		if len(o.DueNotifications(q.Now, reminderDelay)) > 0 {
			result = append(result, o.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.Before(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (r *orderRepository) MarkNotified(_ context.Context, orderID string, n model.Notification) error {
	switch n {
	case model.NotificationOrderReceived, model.NotificationPreparing, model.NotificationReady, model.NotificationReminder:
	default:
		return fmt.Errorf("unknown notification %q", n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Notifications.Mark(n)
	return nil
}
