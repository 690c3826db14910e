package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StoreRepositoryStub serves a fixed set of stores.
type StoreRepositoryStub struct {
	mu     sync.Mutex
	Stores map[string]model.Store
	Err    error
}

// NewStoreRepositoryStub indexes the given stores by id.
func NewStoreRepositoryStub(stores ...model.Store) *StoreRepositoryStub {
	s := &StoreRepositoryStub{Stores: make(map[string]model.Store, len(stores))}
	for _, st := range stores {
		s.Stores[st.ID] = st
	}
	return s
}

// GetByID returns a copy of the stored store.
func (s *StoreRepositoryStub) GetByID(ctx context.Context, id string) (*model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st, ok := s.Stores[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &st, nil
}

// List returns the stores ordered by id.
func (s *StoreRepositoryStub) List(ctx context.Context) ([]model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Store, 0, len(s.Stores))
	for _, st := range s.Stores {
		result = append(result, st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Upsert records the store.
func (s *StoreRepositoryStub) Upsert(ctx context.Context, store model.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Stores == nil {
		s.Stores = make(map[string]model.Store)
	}
	s.Stores[store.ID] = store
	return nil
}
