package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ticket-hub/internal/domain"
	"ticket-hub/internal/service"
)

type mockOrderRepo struct {
	orders map[int64]domain.Order
	nextID int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]domain.Order), nextID: 1}
}

func (m *mockOrderRepo) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	order.ID = m.nextID
	m.nextID++
	if order.OrderTime.IsZero() {
		order.OrderTime = time.Now().UTC()
	}
	m.orders[order.ID] = order
	return order, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return domain.Order{}, pgx.ErrNoRows
	}
	return order, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order domain.Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.orders, id)
	return nil
}

type mockTicketRepo struct {
	tickets map[int64]domain.Ticket
	orders  *mockOrderRepo
	nextID  int64
}

func newMockTicketRepo(orders *mockOrderRepo) *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[int64]domain.Ticket), orders: orders, nextID: 1}
}

func (m *mockTicketRepo) Create(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	ticket.ID = m.nextID
	m.nextID++
	if ticket.Status == "" {
		ticket.Status = "Pending"
	}
	m.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id int64) (domain.Ticket, error) {
	ticket, ok := m.tickets[id]
	if !ok {
		return domain.Ticket{}, pgx.ErrNoRows
	}
	return ticket, nil
}

func (m *mockTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(m.tickets))
	for _, tk := range m.tickets {
		out = append(out, tk)
	}
	return out, nil
}

func (m *mockTicketRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, tk := range m.tickets {
		if tk.OrderID == nil {
			continue
		}
		order, ok := m.orders.orders[*tk.OrderID]
		if !ok || order.CustomerID == nil || *order.CustomerID != customerID {
			continue
		}
		out = append(out, tk)
	}
	return out, nil
}

func (m *mockTicketRepo) Update(_ context.Context, ticket domain.Ticket) error {
	if _, ok := m.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockTicketRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tickets, id)
	return nil
}

type ticketFixture struct {
	router  *gin.Engine
	orders  *mockOrderRepo
	tickets *mockTicketRepo
	jwtSvc  *service.JWTService
}

func newTicketFixture() *ticketFixture {
	gin.SetMode(gin.TestMode)
	orders := newMockOrderRepo()
	tickets := newMockTicketRepo(orders)
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	h := NewTicketHandler(zap.NewNop(), tickets, orders)

	r := gin.New()
	protected := r.Group("/", JWTAuthMiddleware(jwtSvc))
	protected.GET("/tickets", h.List)
	protected.POST("/tickets", h.Create)
	protected.GET("/tickets/:id", h.Get)
	protected.PUT("/tickets/:id", h.Update)
	protected.DELETE("/tickets/:id", h.Delete)

	return &ticketFixture{router: r, orders: orders, tickets: tickets, jwtSvc: jwtSvc}
}

func (f *ticketFixture) token(t *testing.T, customer domain.Customer) string {
	t.Helper()
	pair, err := f.jwtSvc.GeneratePair(customer)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

// seedTicket crea una orden del cliente y un ticket colgado de ella.
func (f *ticketFixture) seedTicket(t *testing.T, customerID string) domain.Ticket {
	t.Helper()
	order, err := f.orders.Create(context.Background(), domain.Order{CustomerID: &customerID})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	ticket, err := f.tickets.Create(context.Background(), domain.Ticket{
		PassportName: "Jane Roe",
		FacebookName: "jane.roe",
		OrderID:      &order.ID,
	})
	if err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func TestTicketHandler_OwnershipOneHop(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, "c1")

	owner := f.token(t, domain.Customer{ID: "c1", Email: "owner@example.com"})
	stranger := f.token(t, domain.Customer{ID: "c2", Email: "other@example.com"})
	staff := f.token(t, domain.Customer{ID: "c3", Email: "staff@example.com", IsStaff: true})

	rec := performRequest(f.router, http.MethodGet, "/tickets/1", nil, "Authorization", owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = performRequest(f.router, http.MethodGet, "/tickets/1", nil, "Authorization", stranger)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger get: expected 403, got %d", rec.Code)
	}

	rec = performRequest(f.router, http.MethodGet, "/tickets/1", nil, "Authorization", staff)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff get: expected 200, got %d", rec.Code)
	}

	rec = performRequest(f.router, http.MethodDelete, "/tickets/1", nil, "Authorization", stranger)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: expected 403, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodDelete, "/tickets/1", nil, "Authorization", owner)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", rec.Code)
	}
	if _, ok := f.tickets.tickets[ticket.ID]; ok {
		t.Fatal("ticket should be deleted")
	}
}

func TestTicketHandler_BrokenOwnershipChain(t *testing.T) {
	f := newTicketFixture()

	// Ticket sin orden padre.
	orphan, err := f.tickets.Create(context.Background(), domain.Ticket{
		PassportName: "No Order",
		FacebookName: "no.order",
	})
	if err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	// Ticket cuya orden perdio el cliente.
	order, err := f.orders.Create(context.Background(), domain.Order{})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	dangling, err := f.tickets.Create(context.Background(), domain.Ticket{
		PassportName: "No Customer",
		FacebookName: "no.customer",
		OrderID:      &order.ID,
	})
	if err != nil {
		t.Fatalf("seed dangling: %v", err)
	}

	customer := f.token(t, domain.Customer{ID: "c1", Email: "user@example.com"})
	admin := f.token(t, domain.Customer{ID: "c9", Email: "admin@example.com", IsSuperuser: true})

	for _, id := range []int64{orphan.ID, dangling.ID} {
		rec := performRequest(f.router, http.MethodGet, "/tickets/"+formatID(id), nil, "Authorization", customer)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("ticket %d: expected 403 for non-staff, got %d", id, rec.Code)
		}
		rec = performRequest(f.router, http.MethodGet, "/tickets/"+formatID(id), nil, "Authorization", admin)
		if rec.Code != http.StatusOK {
			t.Fatalf("ticket %d: expected 200 for admin, got %d", id, rec.Code)
		}
	}
}

func TestTicketHandler_ListScoped(t *testing.T) {
	f := newTicketFixture()
	f.seedTicket(t, "c1")
	f.seedTicket(t, "c1")
	f.seedTicket(t, "c2")

	owner := f.token(t, domain.Customer{ID: "c1", Email: "owner@example.com"})
	staff := f.token(t, domain.Customer{ID: "c3", Email: "staff@example.com", IsStaff: true})

	rec := performRequest(f.router, http.MethodGet, "/tickets", nil, "Authorization", owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner list: expected 200, got %d", rec.Code)
	}
	if got := countTickets(t, rec.Body.Bytes()); got != 2 {
		t.Fatalf("owner list: expected 2 tickets, got %d", got)
	}

	rec = performRequest(f.router, http.MethodGet, "/tickets", nil, "Authorization", staff)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff list: expected 200, got %d", rec.Code)
	}
	if got := countTickets(t, rec.Body.Bytes()); got != 3 {
		t.Fatalf("staff list: expected 3 tickets, got %d", got)
	}
}

func TestTicketHandler_NotFoundAndBadID(t *testing.T) {
	f := newTicketFixture()
	token := f.token(t, domain.Customer{ID: "c1", Email: "user@example.com"})

	rec := performRequest(f.router, http.MethodGet, "/tickets/99", nil, "Authorization", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = performRequest(f.router, http.MethodGet, "/tickets/abc", nil, "Authorization", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func countTickets(t *testing.T, body []byte) int {
	t.Helper()
	var payload struct {
		Tickets []domain.Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode tickets: %v", err)
	}
	return len(payload.Tickets)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
