package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/storepickup/internal/config"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/storage/memory"
)

// monday is 2024-05-06 00:00 UTC.
var monday = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func everyDay(open, close string) model.OpeningHours {
	hours := make(model.OpeningHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = model.DayHours{Open: open, Close: close}
	}
	return hours
}

func downtownStore() model.Store {
	return model.Store{
		ID:                         "store_001",
		Name:                       "Downtown",
		Location:                   model.Point{Lat: 40.7128, Lng: -74.0060},
		Hours:                      everyDay("08:00", "22:00"),
		PickupAvailable:            true,
		EstimatedPickupTimeMinutes: 30,
		MaxPickupTimeHours:         24,
		IsActive:                   true,
	}
}

type ledgerFixture struct {
	orders  *OrderUseCase
	slots   *SlotUseCase
	storage *memory.Storage
	clock   *fakeClock
}

func newLedger(t *testing.T, stores ...model.Store) ledgerFixture {
	t.Helper()
	st := memory.New()
	for _, s := range stores {
		require.NoError(t, st.Stores().Upsert(context.Background(), s))
	}

	clock := &fakeClock{now: monday.Add(6 * time.Hour)}
	slots := NewSlotUseCase(st.Stores(), st.Orders(), &config.Config{Location: time.UTC})
	slots.now = clock.Now
	orders := NewOrderUseCase(st.Orders(), st.Stores(), slots, slog.New(slog.NewTextHandler(io.Discard, nil)))
	orders.now = clock.Now

	return ledgerFixture{orders: orders, slots: slots, storage: st, clock: clock}
}

func items(quantities ...int) []model.LineItem {
	result := make([]model.LineItem, 0, len(quantities))
	for i, q := range quantities {
		result = append(result, model.LineItem{
			ProductID: "sku-" + string(rune('a'+i)),
			Quantity:  q,
			Price:     decimal.RequireFromString("2.50"),
		})
	}
	return result
}

func draft(storeID string, userID int64, scheduled *time.Time) model.OrderDraft {
	return model.OrderDraft{
		StoreID:       storeID,
		UserID:        userID,
		Items:         items(1),
		Customer:      model.CustomerInfo{Name: "Ann", Phone: "555-0101", Email: "ann@example.com"},
		Total:         decimal.RequireFromString("2.50"),
		ScheduledTime: scheduled,
	}
}

func at(t time.Time) *time.Time { return &t }
