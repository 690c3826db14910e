package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storepickup/internal/config"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/storepickup/internal/test"
)

func newEngine(t *testing.T, facade testhelpers.PickupFacadeStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := &config.Config{StaffAPIKey: "staff-secret", DefaultLat: 40.7, DefaultLng: -74, DefaultRadiusKm: 10}
	engine, err := Setup(facade, cfg, logger)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	facade := testhelpers.PickupFacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			ListFn: func(context.Context, int64, model.Page) ([]model.PickupOrder, error) {
				return []model.PickupOrder{{ID: "o1", Status: model.OrderStatusPending, CreatedAt: time.Unix(0, 0)}}, nil
			},
		},
	}
	engine := newEngine(t, facade)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if resp := serve(engine, req); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	if resp := serve(engine, req); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}

	if resp := serve(engine, httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	for _, path := range []string{"/api/health", "/api/stores", "/api/stores/nearby", "/api/stores/store_001/slots?date=2024-05-06", "/api/stores/store_001/estimate?items=3", "/api/stores/store_001/open"} {
		if resp := serve(engine, httptest.NewRequest(http.MethodGet, path, nil)); resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, resp.Code)
		}
	}
}

func TestStaffRoutesRequireKey(t *testing.T) {
	var advanced model.OrderStatus
	engine := newEngine(t, testhelpers.PickupFacadeStub{
		StaffFacadeStub: testhelpers.StaffFacadeStub{
			AdvanceFn: func(_ context.Context, id string, to model.OrderStatus) (*model.PickupOrder, error) {
				advanced = to
				return &model.PickupOrder{ID: id, Status: to}, nil
			},
		},
	})

	if resp := serve(engine, httptest.NewRequest(http.MethodGet, "/api/staff/orders", nil)); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/staff/orders", nil)
	req.Header.Set("X-Staff-Key", "wrong")
	if resp := serve(engine, req); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong key, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/staff/orders/o1/picked-up", nil)
	req.Header.Set("X-Staff-Key", "staff-secret")
	if resp := serve(engine, req); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if advanced != model.OrderStatusPickedUp {
		t.Fatalf("expected picked_up transition, got %q", advanced)
	}
}

func TestHealthReportsStorageFailure(t *testing.T) {
	engine := newEngine(t, testhelpers.PickupFacadeStub{HealthErr: errors.New("db down")})
	if resp := serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil)); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestGzipRequestAndResponse(t *testing.T) {
	var gotCode string
	engine := newEngine(t, testhelpers.PickupFacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			VerifyFn: func(_ context.Context, code string) (*model.PickupOrder, error) {
				gotCode = code
				return &model.PickupOrder{ID: "o1", PickupCode: code, Status: model.OrderStatusReady}, nil
			},
		},
	})

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(`{"code":"ABCD1234"}`))
	_ = gz.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/pickup/verify", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")
	resp := serve(engine, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotCode != "ABCD1234" {
		t.Fatalf("expected decompressed code, got %q", gotCode)
	}
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got %q", resp.Header().Get("Content-Encoding"))
	}
}

var _ handlers.PickupFacade = testhelpers.PickupFacadeStub{}
