package repository

import (
	"context"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

// StoreRepository gives read access to fulfillment locations. Upsert is used by seeding only.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
	Upsert(ctx context.Context, store model.Store) error
}
