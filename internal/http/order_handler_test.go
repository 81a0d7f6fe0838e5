package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ticket-hub/internal/domain"
	"ticket-hub/internal/service"
)

type orderFixture struct {
	router *gin.Engine
	orders *mockOrderRepo
	jwtSvc *service.JWTService
}

func newOrderFixture() *orderFixture {
	gin.SetMode(gin.TestMode)
	orders := newMockOrderRepo()
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	h := NewOrderHandler(zap.NewNop(), orders)

	r := gin.New()
	protected := r.Group("/", JWTAuthMiddleware(jwtSvc))
	protected.GET("/orders", h.List)
	protected.POST("/orders", h.Create)
	protected.GET("/orders/:id", h.Get)
	protected.PUT("/orders/:id", h.Update)
	protected.DELETE("/orders/:id", h.Delete)

	return &orderFixture{router: r, orders: orders, jwtSvc: jwtSvc}
}

func (f *orderFixture) token(t *testing.T, customer domain.Customer) string {
	t.Helper()
	pair, err := f.jwtSvc.GeneratePair(customer)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func TestOrderHandler_CreateBindsActor(t *testing.T) {
	f := newOrderFixture()
	token := f.token(t, domain.Customer{ID: "c1", Email: "user@example.com"})

	eventID := int64(7)
	rec := performRequest(f.router, http.MethodPost, "/orders", map[string]any{
		"event_id": eventID,
		// customer_id del body se ignora, manda el token
		"customer_id": "c9",
	}, "Authorization", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	var payload struct {
		Order domain.Order `json:"order"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if payload.Order.CustomerID == nil || *payload.Order.CustomerID != "c1" {
		t.Fatalf("order must belong to the actor, got %v", payload.Order.CustomerID)
	}
	if payload.Order.EventID == nil || *payload.Order.EventID != eventID {
		t.Fatalf("unexpected event id: %v", payload.Order.EventID)
	}
}

func TestOrderHandler_DirectOwnership(t *testing.T) {
	f := newOrderFixture()
	ownerID := "c1"
	if _, err := f.orders.Create(context.Background(), domain.Order{CustomerID: &ownerID}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	owner := f.token(t, domain.Customer{ID: "c1", Email: "owner@example.com"})
	stranger := f.token(t, domain.Customer{ID: "c2", Email: "other@example.com"})
	staff := f.token(t, domain.Customer{ID: "c3", Email: "staff@example.com", IsStaff: true})

	rec := performRequest(f.router, http.MethodGet, "/orders/1", nil, "Authorization", owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: expected 200, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodGet, "/orders/1", nil, "Authorization", stranger)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger get: expected 403, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodPut, "/orders/1", map[string]any{"event_id": 3}, "Authorization", stranger)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger update: expected 403, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodGet, "/orders/1", nil, "Authorization", staff)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff get: expected 200, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodDelete, "/orders/1", nil, "Authorization", owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodGet, "/orders/1", nil, "Authorization", owner)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted order: expected 404, got %d", rec.Code)
	}
}

func TestOrderHandler_ListScoped(t *testing.T) {
	f := newOrderFixture()
	c1, c2 := "c1", "c2"
	for _, id := range []*string{&c1, &c1, &c2, nil} {
		if _, err := f.orders.Create(context.Background(), domain.Order{CustomerID: id}); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	owner := f.token(t, domain.Customer{ID: "c1", Email: "owner@example.com"})
	admin := f.token(t, domain.Customer{ID: "c9", Email: "admin@example.com", IsSuperuser: true})

	rec := performRequest(f.router, http.MethodGet, "/orders", nil, "Authorization", owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner list: expected 200, got %d", rec.Code)
	}
	if got := countOrders(t, rec.Body.Bytes()); got != 2 {
		t.Fatalf("owner list: expected 2 orders, got %d", got)
	}

	rec = performRequest(f.router, http.MethodGet, "/orders", nil, "Authorization", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", rec.Code)
	}
	if got := countOrders(t, rec.Body.Bytes()); got != 4 {
		t.Fatalf("admin list: expected 4 orders, got %d", got)
	}
}

func countOrders(t *testing.T, body []byte) int {
	t.Helper()
	var payload struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	return len(payload.Orders)
}
