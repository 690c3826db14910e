package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/polkiloo/storepickup/internal/config"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/domain/repository"
	"github.com/polkiloo/storepickup/internal/pkg/geo"
)

// StoreUseCase answers store lookups, proximity searches and opening hours.
type StoreUseCase struct {
	stores repository.StoreRepository
	loc    *time.Location
}

// NewStoreUseCase constructs StoreUseCase. Store hours are interpreted in the configured time zone.
func NewStoreUseCase(stores repository.StoreRepository, cfg *config.Config) *StoreUseCase {
	return &StoreUseCase{stores: stores, loc: location(cfg)}
}

func location(cfg *config.Config) *time.Location {
	if cfg == nil || cfg.Location == nil {
		return time.UTC
	}
	return cfg.Location
}

// GetByID returns a store or ErrNotFound.
func (u *StoreUseCase) GetByID(ctx context.Context, id string) (*model.Store, error) {
	return u.stores.GetByID(ctx, id)
}

// ListAvailable returns active stores that accept pickup orders.
func (u *StoreUseCase) ListAvailable(ctx context.Context) ([]model.Store, error) {
	all, err := u.stores.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.Store, 0, len(all))
	for _, s := range all {
		if s.AcceptsPickup() {
			result = append(result, s)
		}
	}
	return result, nil
}

// Nearby returns available stores within radiusKm of point, closest first.
func (u *StoreUseCase) Nearby(ctx context.Context, point model.Point, radiusKm float64) ([]model.StoreDistance, error) {
	if radiusKm <= 0 {
		return []model.StoreDistance{}, nil
	}
	available, err := u.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.StoreDistance, 0, len(available))
	for _, s := range available {
		if d := geo.Distance(point, s.Location); d <= radiusKm {
			result = append(result, model.StoreDistance{Store: s, DistanceKm: d})
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].DistanceKm < result[j].DistanceKm })
	return result, nil
}

// IsOpen reports whether the store is open at the instant in store local time.
func (u *StoreUseCase) IsOpen(ctx context.Context, id string, at time.Time) (bool, error) {
	store, err := u.stores.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return IsOpen(*store, at.In(u.loc)), nil
}

// Location returns the time zone store hours are expressed in.
func (u *StoreUseCase) Location() *time.Location {
	return u.loc
}
