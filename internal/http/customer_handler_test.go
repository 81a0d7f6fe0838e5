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

type customerFixture struct {
	router *gin.Engine
	repo   *mockCustomerRepo
	jwtSvc *service.JWTService
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newMockCustomerRepo()
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	h := NewCustomerHandler(zap.NewNop(), repo)

	r := gin.New()
	protected := r.Group("/", JWTAuthMiddleware(jwtSvc))
	protected.GET("/customers", h.List)
	protected.GET("/customers/:id", h.Get)
	protected.PUT("/customers/:id", h.Update)

	f := &customerFixture{router: r, repo: repo, jwtSvc: jwtSvc}
	for _, c := range []domain.Customer{
		{ID: "c1", Email: "one@example.com", Name: "One", EmailVerified: true, IsActive: true},
		{ID: "c2", Email: "two@example.com", Name: "Two", EmailVerified: true, IsActive: true},
		{ID: "c3", Email: "staff@example.com", Name: "Staff", IsStaff: true, EmailVerified: true, IsActive: true},
	} {
		if err := repo.Create(context.Background(), c); err != nil {
			t.Fatalf("seed customer: %v", err)
		}
	}
	return f
}

func (f *customerFixture) token(t *testing.T, id string) string {
	t.Helper()
	c, err := f.repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	pair, err := f.jwtSvc.GeneratePair(c)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func TestCustomerHandler_GetSelfOrPrivileged(t *testing.T) {
	f := newCustomerFixture(t)

	rec := performRequest(f.router, http.MethodGet, "/customers/c1", nil, "Authorization", f.token(t, "c1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("self get: expected 200, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodGet, "/customers/c2", nil, "Authorization", f.token(t, "c1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("other get: expected 403, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodGet, "/customers/c1", nil, "Authorization", f.token(t, "c3"))
	if rec.Code != http.StatusOK {
		t.Fatalf("staff get: expected 200, got %d", rec.Code)
	}
}

func TestCustomerHandler_ListScoped(t *testing.T) {
	f := newCustomerFixture(t)

	rec := performRequest(f.router, http.MethodGet, "/customers", nil, "Authorization", f.token(t, "c1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("customer list: expected 200, got %d", rec.Code)
	}
	var payload struct {
		Customers []domain.Customer `json:"customers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode customers: %v", err)
	}
	if len(payload.Customers) != 1 || payload.Customers[0].ID != "c1" {
		t.Fatalf("customer must see only itself, got %v", payload.Customers)
	}

	rec = performRequest(f.router, http.MethodGet, "/customers", nil, "Authorization", f.token(t, "c3"))
	if rec.Code != http.StatusOK {
		t.Fatalf("staff list: expected 200, got %d", rec.Code)
	}
	payload.Customers = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode customers: %v", err)
	}
	if len(payload.Customers) != 3 {
		t.Fatalf("staff must see all customers, got %d", len(payload.Customers))
	}
}

func TestCustomerHandler_UpdateProfile(t *testing.T) {
	f := newCustomerFixture(t)

	rec := performRequest(f.router, http.MethodPut, "/customers/c2", map[string]string{
		"email": "hacked@example.com",
		"name":  "Hacked",
	}, "Authorization", f.token(t, "c1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("other update: expected 403, got %d", rec.Code)
	}

	rec = performRequest(f.router, http.MethodPut, "/customers/c1", map[string]string{
		"email": "renamed@example.com",
		"name":  "Renamed",
	}, "Authorization", f.token(t, "c1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("self update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	updated, err := f.repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if updated.Email != "renamed@example.com" || updated.Name != "Renamed" {
		t.Fatalf("profile not updated: %+v", updated)
	}
}
