package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Stores() StoreRepository
	Orders() OrderRepository
	HealthCheck(ctx context.Context) error
	Close()
}
