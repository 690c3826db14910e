package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
)

const storeColumns = `id, name, street, city, state, postal_code, country, lat, lng, phone, hours, capabilities,
pickup_available, estimated_pickup_minutes, max_pickup_hours, slot_capacity, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(row rowScanner) (*model.Store, error) {
	var (
		s     model.Store
		hours []byte
	)
	err := row.Scan(
		&s.ID, &s.Name,
		&s.Address.Street, &s.Address.City, &s.Address.State, &s.Address.PostalCode, &s.Address.Country,
		&s.Location.Lat, &s.Location.Lng, &s.Phone, &hours, &s.Capabilities,
		&s.PickupAvailable, &s.EstimatedPickupTimeMinutes, &s.MaxPickupTimeHours, &s.SlotCapacity, &s.IsActive,
	)
	if err != nil {
		return nil, err
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &s.Hours); err != nil {
			return nil, fmt.Errorf("decode hours of store %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*model.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id=$1`
	store, err := scanStore(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return store, nil
}

func (r *storeRepository) List(ctx context.Context) ([]model.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *storeRepository) Upsert(ctx context.Context, s model.Store) error {
	const query = `INSERT INTO stores (id, name, street, city, state, postal_code, country, lat, lng, phone, hours,
                   capabilities, pickup_available, estimated_pickup_minutes, max_pickup_hours, slot_capacity, is_active)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15, $16, $17)
                   ON CONFLICT (id) DO UPDATE SET
                       name = EXCLUDED.name, street = EXCLUDED.street, city = EXCLUDED.city, state = EXCLUDED.state,
                       postal_code = EXCLUDED.postal_code, country = EXCLUDED.country, lat = EXCLUDED.lat, lng = EXCLUDED.lng,
                       phone = EXCLUDED.phone, hours = EXCLUDED.hours, capabilities = EXCLUDED.capabilities,
                       pickup_available = EXCLUDED.pickup_available,
                       estimated_pickup_minutes = EXCLUDED.estimated_pickup_minutes,
                       max_pickup_hours = EXCLUDED.max_pickup_hours, slot_capacity = EXCLUDED.slot_capacity,
                       is_active = EXCLUDED.is_active, updated_at = NOW()`

	hours, err := json.Marshal(s.Hours)
	if err != nil {
		return fmt.Errorf("encode hours of store %s: %w", s.ID, err)
	}
	capabilities := s.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}

	_, err = r.storage.pool.Exec(ctx, query,
		s.ID, s.Name, s.Address.Street, s.Address.City, s.Address.State, s.Address.PostalCode, s.Address.Country,
		s.Location.Lat, s.Location.Lng, s.Phone, string(hours), capabilities,
		s.PickupAvailable, s.EstimatedPickupTimeMinutes, s.MaxPickupTimeHours, s.SlotCapacity, s.IsActive,
	)
	return err
}
