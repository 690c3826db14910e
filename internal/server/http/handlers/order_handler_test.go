package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/server/http/dto"
	"github.com/polkiloo/storepickup/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/storepickup/internal/test"
)

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) { c.Set(middleware.UserIDContextKey, id) }
}

const validOrder = `{"store_id":"store_001","items":[{"product_id":"p1","quantity":2,"price":"4.50"}],` +
	`"customer":{"name":"Ann","phone":"555-0100","email":"ann@example.com"},"total":"9.00"%s}`

func TestOrderHandlerCreate(t *testing.T) {
	var got model.OrderDraft
	orders := testhelpers.OrderFacadeStub{PlaceFn: func(_ context.Context, d model.OrderDraft) (*model.PickupOrder, error) {
		got = d
		return &model.PickupOrder{ID: "o1", PickupCode: "ABCD1234", StoreID: d.StoreID, Status: model.OrderStatusPending}, nil
	}}
	h := NewOrderHandler(orders, testhelpers.StoreFacadeStub{})

	resp := performRoute(t, http.MethodPost, "/orders", "/orders", h.Create, asUser(7), []byte(fmt.Sprintf(validOrder, `,"scheduled_time":"2024-05-06T14:30:00Z"`)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.UserID != 7 || got.StoreID != "store_001" || len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected draft %+v", got)
	}
	if !got.Total.Equal(decimal.RequireFromString("9.00")) || !got.Items[0].Price.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected amounts %+v", got)
	}
	if got.ScheduledTime == nil || !got.ScheduledTime.Equal(time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected scheduled time %v", got.ScheduledTime)
	}
	if body := decode[dto.OrderResponse](t, resp); body.PickupCode != "" || body.Status != "pending" {
		t.Fatalf("pickup code must stay hidden before ready: %+v", body)
	}

	resp = performRoute(t, http.MethodPost, "/orders", "/orders", h.Create, asUser(7), []byte(fmt.Sprintf(validOrder, "")))
	if resp.Code != http.StatusCreated || got.ScheduledTime != nil {
		t.Fatalf("expected unscheduled order, got %d %v", resp.Code, got.ScheduledTime)
	}
}

func TestOrderHandlerCreateLocalPickupTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	var got model.OrderDraft
	h := NewOrderHandler(testhelpers.OrderFacadeStub{PlaceFn: func(_ context.Context, d model.OrderDraft) (*model.PickupOrder, error) {
		got = d
		return &model.PickupOrder{ID: "o1"}, nil
	}}, testhelpers.StoreFacadeStub{Loc: loc})

	resp := performRoute(t, http.MethodPost, "/orders", "/orders", h.Create, asUser(1), []byte(fmt.Sprintf(validOrder, `,"pickup_date":"2024-05-06","pickup_time":"14:30"`)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.ScheduledTime == nil || !got.ScheduledTime.Equal(time.Date(2024, 5, 6, 14, 30, 0, 0, loc)) {
		t.Fatalf("expected local 14:30, got %v", got.ScheduledTime)
	}
}

func TestOrderHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad json", body: "{", status: http.StatusBadRequest},
		{name: "no items", body: `{"store_id":"store_001","items":[]}`, status: http.StatusBadRequest},
		{name: "zero quantity", body: `{"store_id":"s","items":[{"product_id":"p","quantity":0}],"customer":{"name":"a","phone":"1"}}`, status: http.StatusBadRequest},
		{name: "bad pickup clock", body: fmt.Sprintf(validOrder, `,"pickup_date":"2024-05-06","pickup_time":"25:00"`), status: http.StatusBadRequest},
		{name: "date without time", body: fmt.Sprintf(validOrder, `,"pickup_date":"2024-05-06"`), status: http.StatusBadRequest},
		{name: "slot full", body: fmt.Sprintf(validOrder, ""), err: domainErrors.ErrCapacityExceeded, status: http.StatusConflict},
		{name: "closed slot", body: fmt.Sprintf(validOrder, ""), err: domainErrors.ErrInvalidSlot, status: http.StatusUnprocessableEntity},
		{name: "store unavailable", body: fmt.Sprintf(validOrder, ""), err: domainErrors.ErrStoreUnavailable, status: http.StatusUnprocessableEntity},
		{name: "unknown store", body: fmt.Sprintf(validOrder, ""), err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "code exhaustion", body: fmt.Sprintf(validOrder, ""), err: domainErrors.ErrCodeConflict, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := testhelpers.OrderFacadeStub{}
			if tt.err != nil {
				err := tt.err
				orders.PlaceFn = func(context.Context, model.OrderDraft) (*model.PickupOrder, error) { return nil, err }
			}
			h := NewOrderHandler(orders, testhelpers.StoreFacadeStub{})
			resp := performRoute(t, http.MethodPost, "/orders", "/orders", h.Create, asUser(1), []byte(tt.body))
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestOrderHandlerListAndGet(t *testing.T) {
	var gotPage model.Page
	orders := testhelpers.OrderFacadeStub{
		ListFn: func(_ context.Context, userID int64, page model.Page) ([]model.PickupOrder, error) {
			gotPage = page
			return []model.PickupOrder{
				{ID: "o2", PickupCode: "READY123", Status: model.OrderStatusReady},
				{ID: "o1", PickupCode: "HIDDEN12", Status: model.OrderStatusPreparing},
			}, nil
		},
		GetFn: func(_ context.Context, userID int64, id string) (*model.PickupOrder, error) {
			if userID != 1 || id != "o1" {
				return nil, domainErrors.ErrNotFound
			}
			return &model.PickupOrder{ID: id, Status: model.OrderStatusPending}, nil
		},
	}
	h := NewOrderHandler(orders, testhelpers.StoreFacadeStub{})

	resp := performRoute(t, http.MethodGet, "/orders", "/orders?limit=5&offset=10", h.List, asUser(1), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotPage != (model.Page{Limit: 5, Offset: 10}) {
		t.Fatalf("unexpected page %+v", gotPage)
	}
	list := decode[[]dto.OrderResponse](t, resp)
	if len(list) != 2 || list[0].PickupCode != "READY123" || list[1].PickupCode != "" {
		t.Fatalf("code visibility wrong: %+v", list)
	}

	if resp := performRoute(t, http.MethodGet, "/orders", "/orders?limit=x", h.List, asUser(1), nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := performRoute(t, http.MethodGet, "/orders/:id", "/orders/o1", h.Get, asUser(1), nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := performRoute(t, http.MethodGet, "/orders/:id", "/orders/o1", h.Get, asUser(2), nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", resp.Code)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "cancelled", status: http.StatusOK},
		{name: "already collected", err: domainErrors.ErrInvalidTransition, status: http.StatusConflict},
		{name: "expired", err: domainErrors.ErrExpired, status: http.StatusGone},
		{name: "missing", err: domainErrors.ErrNotFound, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			h := NewOrderHandler(testhelpers.OrderFacadeStub{CancelFn: func(_ context.Context, _ int64, id string) (*model.PickupOrder, error) {
				if err != nil {
					return nil, err
				}
				return &model.PickupOrder{ID: id, Status: model.OrderStatusCancelled}, nil
			}}, testhelpers.StoreFacadeStub{})
			resp := performRoute(t, http.MethodPost, "/orders/:id/cancel", "/orders/o1/cancel", h.Cancel, asUser(1), nil)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerVerify(t *testing.T) {
	h := NewOrderHandler(testhelpers.OrderFacadeStub{VerifyFn: func(_ context.Context, code string) (*model.PickupOrder, error) {
		if code != "ABCD1234" {
			return nil, domainErrors.ErrInvalidCode
		}
		return &model.PickupOrder{ID: "o1", PickupCode: code, Status: model.OrderStatusReady}, nil
	}}, testhelpers.StoreFacadeStub{})

	resp := performRoute(t, http.MethodPost, "/verify", "/verify", h.Verify, nil, []byte(`{"code":"ABCD1234"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := decode[dto.OrderResponse](t, resp); body.PickupCode != "ABCD1234" {
		t.Fatalf("expected code in ready order, got %+v", body)
	}
	if resp := performRoute(t, http.MethodPost, "/verify", "/verify", h.Verify, nil, []byte(`{"code":"ZZZZ9999"}`)); resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if resp := performRoute(t, http.MethodPost, "/verify", "/verify", h.Verify, nil, []byte(`{}`)); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
