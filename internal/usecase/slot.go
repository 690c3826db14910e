package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/polkiloo/storepickup/internal/config"
	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/domain/repository"
)

// SlotUseCase builds hourly pickup slots and validates requested pickup times against them.
type SlotUseCase struct {
	stores repository.StoreRepository
	orders repository.OrderRepository
	loc    *time.Location
	now    func() time.Time
}

// NewSlotUseCase constructs SlotUseCase.
func NewSlotUseCase(stores repository.StoreRepository, orders repository.OrderRepository, cfg *config.Config) *SlotUseCase {
	return &SlotUseCase{stores: stores, orders: orders, loc: location(cfg), now: time.Now}
}

// AvailableSlots lists the slots of the store on the calendar date of day in store local time.
func (u *SlotUseCase) AvailableSlots(ctx context.Context, storeID string, day time.Time) ([]model.PickupTimeSlot, error) {
	store, err := u.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	day = model.DayStart(day.In(u.loc))
	first, last, ok := slotHours(*store, day)
	if !ok || !store.AcceptsPickup() {
		return []model.PickupTimeSlot{}, nil
	}

	scheduled, err := u.orders.ScheduledTimes(ctx, storeID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}
	booked := make(map[int64]int, len(scheduled))
	for _, t := range scheduled {
		booked[model.SlotStart(t.In(u.loc)).Unix()]++
	}

	now := u.now()
	horizon := bookingHorizon(now)
	capacity := store.Capacity()
	slots := make([]model.PickupTimeSlot, 0, last-first)
	for h := first; h < last; h++ {
		start := time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, u.loc)
		count := booked[start.Unix()]
		slots = append(slots, model.PickupTimeSlot{
			Time:      fmt.Sprintf("%02d:00", h),
			Start:     start,
			Available: start.After(now) && start.Before(horizon) && count < capacity,
			Capacity:  capacity,
			Booked:    count,
		})
	}
	return slots, nil
}

// reservation checks that scheduled falls into a bookable slot of the store and returns the slot to reserve.
// Capacity is enforced by the repository when the order is inserted.
func (u *SlotUseCase) reservation(store model.Store, scheduled, now time.Time) (*repository.SlotReservation, error) {
	local := scheduled.In(u.loc)
	first, last, ok := slotHours(store, local)
	if !ok || local.Hour() < first || local.Hour() >= last {
		return nil, fmt.Errorf("%w: store is closed at %s", domainErrors.ErrInvalidSlot, local.Format("Mon 15:04"))
	}
	start := model.SlotStart(local)
	if !start.After(now) {
		return nil, fmt.Errorf("%w: slot %s has already started", domainErrors.ErrInvalidSlot, start.Format("2006-01-02 15:04"))
	}
	if horizon := bookingHorizon(now); !start.Before(horizon) {
		return nil, fmt.Errorf("%w: slot %s opens after the order would expire at %s",
			domainErrors.ErrInvalidSlot, start.Format("2006-01-02 15:04"), horizon.Format("2006-01-02 15:04"))
	}
	return &repository.SlotReservation{
		StoreID:  store.ID,
		Start:    start,
		End:      start.Add(time.Hour),
		Capacity: store.Capacity(),
	}, nil
}

// bookingHorizon is the first instant an order placed at now can no longer be collected.
// Slots starting at or after it would be held by an order that expires before they open.
func bookingHorizon(now time.Time) time.Time {
	return now.Add(model.OrderTTL)
}
