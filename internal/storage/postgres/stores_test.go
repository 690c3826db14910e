package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
)

var storeColumnNames = []string{
	"id", "name", "street", "city", "state", "postal_code", "country", "lat", "lng", "phone", "hours", "capabilities",
	"pickup_available", "estimated_pickup_minutes", "max_pickup_hours", "slot_capacity", "is_active",
}

func addStoreRow(rows *pgxmockv3.Rows, id string) *pgxmockv3.Rows {
	return rows.AddRow(
		id, "Downtown", "1 Main St", "New York", "NY", "10001", "US", 40.7128, -74.0060, "555-0100",
		[]byte(`{"1":{"open":"08:00","close":"22:00"},"0":{"open":"","close":"","closed":true}}`),
		[]string{"pickup", "returns"}, true, 30, 24, 10, true,
	)
}

func TestStoreRepositoryGetAndList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &storeRepository{storage: storage}
	ctx := context.Background()

	mock.ExpectQuery("FROM stores WHERE id=").WithArgs("store_001").
		WillReturnRows(addStoreRow(pgxmockv3.NewRows(storeColumnNames), "store_001"))
	store, err := repo.GetByID(ctx, "store_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Address.City != "New York" || store.Location.Lat != 40.7128 || len(store.Capabilities) != 2 {
		t.Fatalf("unexpected store %+v", store)
	}
	if h, ok := store.HoursOn(time.Monday); !ok || h.Close != "22:00" {
		t.Fatalf("unexpected monday hours %+v", h)
	}
	if _, ok := store.HoursOn(time.Sunday); ok {
		t.Fatal("sunday should be closed")
	}

	mock.ExpectQuery("FROM stores WHERE id=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM stores ORDER BY id").
		WillReturnRows(addStoreRow(addStoreRow(pgxmockv3.NewRows(storeColumnNames), "store_001"), "store_002"))
	stores, err := repo.List(ctx)
	if err != nil || len(stores) != 2 || stores[1].ID != "store_002" {
		t.Fatalf("unexpected stores %v err=%v", stores, err)
	}

	mock.ExpectQuery("FROM stores ORDER BY id").WillReturnError(errors.New("query"))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected error")
	}

	bad := pgxmockv3.NewRows(storeColumnNames).AddRow(
		"store_003", "Broken", "", "", "", "", "", 0.0, 0.0, "", []byte(`[`), []string{}, true, 30, 24, 10, true,
	)
	mock.ExpectQuery("FROM stores ORDER BY id").WillReturnRows(bad)
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected decode error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestStoreRepositoryUpsert(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &storeRepository{storage: storage}

	store := model.Store{
		ID:       "store_001",
		Name:     "Downtown",
		Location: model.Point{Lat: 1, Lng: 2},
		Hours:    model.OpeningHours{time.Monday: {Open: "08:00", Close: "20:00"}},
		IsActive: true,
	}

	mock.ExpectExec("INSERT INTO stores").
		WithArgs("store_001", "Downtown", "", "", "", "", "", 1.0, 2.0, "",
			`{"1":{"open":"08:00","close":"20:00"}}`, []string{}, false, 0, 0, 0, true).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.Upsert(context.Background(), store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("INSERT INTO stores").WillReturnError(errors.New("insert"))
	if err := repo.Upsert(context.Background(), store); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
