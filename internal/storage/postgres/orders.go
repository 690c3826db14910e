package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/domain/repository"
)

const orderColumns = `id, pickup_code, store_id, user_id, items, customer, scheduled_time, notes, preparation_minutes,
actual_ready_time, status, total::text, created_at, updated_at, expires_at,
notified_received, notified_preparing, notified_ready, notified_reminder`

const (
	liveStatusesSQL   = `('pending', 'preparing', 'ready')`
	freedStatusesSQL  = `('cancelled', 'picked_up')`
	orderByNewestSQL  = ` ORDER BY created_at DESC, id LIMIT `
	slotLockStatement = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
)

func scanOrder(row rowScanner) (*model.PickupOrder, error) {
	var (
		o        model.PickupOrder
		items    []byte
		customer []byte
		total    string
	)
	err := row.Scan(
		&o.ID, &o.PickupCode, &o.StoreID, &o.UserID, &items, &customer, &o.ScheduledTime, &o.Notes,
		&o.PreparationTimeMinutes, &o.ActualReadyTime, &o.Status, &total, &o.CreatedAt, &o.UpdatedAt, &o.ExpiresAt,
		&o.Notifications.OrderReceived, &o.Notifications.Preparing, &o.Notifications.Ready, &o.Notifications.ReminderSent,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return nil, fmt.Errorf("decode customer of order %s: %w", o.ID, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("decode total of order %s: %w", o.ID, err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.PickupOrder, error) {
	defer rows.Close()

	var result []model.PickupOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func slotLockKey(slot *repository.SlotReservation) string {
	return slot.StoreID + "|" + slot.Start.UTC().Format(time.RFC3339)
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.PickupOrder, slot *repository.SlotReservation) error {
	const countQuery = `SELECT COUNT(*) FROM pickup_orders
                        WHERE store_id=$1 AND scheduled_time >= $2 AND scheduled_time < $3
                        AND status NOT IN ` + freedStatusesSQL
	const insertQuery = `INSERT INTO pickup_orders (id, pickup_code, store_id, user_id, items, customer, scheduled_time,
                         notes, preparation_minutes, status, total, created_at, updated_at, expires_at)
                         VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $9, $10, $11::numeric, $12, $13, $14)`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if slot != nil {
			if _, err := tx.Exec(ctx, slotLockStatement, slotLockKey(slot)); err != nil {
				return err
			}
			var booked int
			if err := tx.QueryRow(ctx, countQuery, slot.StoreID, slot.Start, slot.End).Scan(&booked); err != nil {
				return err
			}
			if booked >= slot.Capacity {
				r.storage.logger.Debug("pickup slot full",
					slog.String("store_id", slot.StoreID),
					slog.Time("slot", slot.Start),
					slog.Int("booked", booked))
				return domainErrors.ErrCapacityExceeded
			}
		}

		_, err := tx.Exec(ctx, insertQuery,
			order.ID, order.PickupCode, order.StoreID, order.UserID, string(items), string(customer),
			order.ScheduledTime, order.Notes, order.PreparationTimeMinutes, order.Status, order.Total.String(),
			order.CreatedAt, order.UpdatedAt, order.ExpiresAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch {
				case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == liveCodeConstraint:
					return domainErrors.ErrCodeConflict
				case pgErr.Code == pgUniqueViolation:
					return domainErrors.ErrAlreadyExists
				case pgErr.Code == pgForeignKeyViolation:
					return domainErrors.ErrNotFound
				}
			}
			return err
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.PickupOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM pickup_orders WHERE id=$1`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) FindByCode(ctx context.Context, code string) (*model.PickupOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM pickup_orders WHERE upper(pickup_code)=upper($1)
              ORDER BY created_at DESC LIMIT 1`
	return r.getOne(ctx, query, code)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*model.PickupOrder, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.PickupOrder, error) {
	page = page.Normalize()
	query := `SELECT ` + orderColumns + ` FROM pickup_orders WHERE user_id=$1` + orderByNewestSQL + `$2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListByStore(ctx context.Context, storeID string, page model.Page) ([]model.PickupOrder, error) {
	page = page.Normalize()
	query := `SELECT ` + orderColumns + ` FROM pickup_orders WHERE store_id=$1` + orderByNewestSQL + `$2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// ListByStatus filters on the effective status: stored live orders past expires_at are reported as expired.
func (r *orderRepository) ListByStatus(ctx context.Context, filter repository.StatusFilter, page model.Page) ([]model.PickupOrder, error) {
	page = page.Normalize()

	var (
		where string
		args  []any
	)
	switch {
	case filter.Status == model.OrderStatusExpired:
		where = `status='expired' OR (status IN ` + liveStatusesSQL + ` AND expires_at < $1)`
		args = []any{filter.Now}
	case filter.Status.IsLive():
		where = `status=$1 AND expires_at >= $2`
		args = []any{filter.Status, filter.Now}
	default:
		where = `status=$1`
		args = []any{filter.Status}
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM pickup_orders WHERE %s%s$%d OFFSET $%d`, orderColumns, where, orderByNewestSQL, n+1, n+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ScheduledTimes(ctx context.Context, storeID string, from, to time.Time) ([]time.Time, error) {
	const query = `SELECT scheduled_time FROM pickup_orders
                   WHERE store_id=$1 AND scheduled_time >= $2 AND scheduled_time < $3
                   AND status NOT IN ` + freedStatusesSQL
	rows, err := r.storage.pool.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, change repository.StatusChange) (*model.PickupOrder, error) {
	query := `UPDATE pickup_orders
              SET status=$1, actual_ready_time=COALESCE($2, actual_ready_time), updated_at=$3
              WHERE id=$4 AND status=$5
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, change.To, change.ReadyAt, change.At, change.OrderID, change.From))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := r.GetByID(ctx, change.OrderID); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrInvalidTransition
}

func (r *orderRepository) SelectAwaitingNotification(ctx context.Context, q repository.NotificationQuery) ([]model.PickupOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM pickup_orders
              WHERE status IN ` + liveStatusesSQL + ` AND expires_at >= $1 AND (
                  NOT notified_received
                  OR (status='preparing' AND NOT notified_preparing)
                  OR (status='ready' AND NOT notified_ready)
                  OR (status='ready' AND NOT notified_reminder AND actual_ready_time <= $2))
              ORDER BY updated_at, id
              LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, q.Now, q.ReminderCutoff, q.Limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) MarkNotified(ctx context.Context, orderID string, n model.Notification) error {
	var column string
	switch n {
	case model.NotificationOrderReceived:
		column = "notified_received"
	case model.NotificationPreparing:
		column = "notified_preparing"
	case model.NotificationReady:
		column = "notified_ready"
	case model.NotificationReminder:
		column = "notified_reminder"
	default:
		return fmt.Errorf("unknown notification %q", n)
	}

	tag, err := r.storage.pool.Exec(ctx, `UPDATE pickup_orders SET `+column+`=TRUE WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
