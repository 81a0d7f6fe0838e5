package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ticket-hub/internal/domain"
	"ticket-hub/internal/repository"
	"ticket-hub/internal/service"
)

// TicketHandler expone tickets; la propiedad se resuelve con un salto por la
// orden padre.
type TicketHandler struct {
	logger  *zap.Logger
	tickets repository.TicketRepository
	orders  repository.OrderRepository
}

func NewTicketHandler(logger *zap.Logger, tickets repository.TicketRepository, orders repository.OrderRepository) *TicketHandler {
	return &TicketHandler{logger: logger, tickets: tickets, orders: orders}
}

// List maneja GET /tickets.
func (h *TicketHandler) List(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var (
		tickets []domain.Ticket
		err     error
	)
	scope := service.ScopeListing(actor)
	if scope.All {
		tickets, err = h.tickets.List(c.Request.Context())
	} else {
		tickets, err = h.tickets.ListByCustomer(c.Request.Context(), scope.CustomerID)
	}
	if err != nil {
		h.logger.Error("list tickets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// Get maneja GET /tickets/:id.
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// Create maneja POST /tickets.
func (h *TicketHandler) Create(c *gin.Context) {
	if _, ok := GetActor(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create ticket request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		h.logger.Error("create ticket failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create ticket"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// Update maneja PUT /tickets/:id.
func (h *TicketHandler) Update(c *gin.Context) {
	ticket, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update ticket request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated := req.toDomain(ticket.ID)
	if err := h.tickets.Update(c.Request.Context(), updated); err != nil {
		h.logger.Error("update ticket failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": updated})
}

// Delete maneja DELETE /tickets/:id.
func (h *TicketHandler) Delete(c *gin.Context) {
	ticket, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if err := h.tickets.Delete(c.Request.Context(), ticket.ID); err != nil {
		h.logger.Error("delete ticket failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete ticket"})
		return
	}
	c.Status(http.StatusNoContent)
}

type ticketRequest struct {
	PassportName string `json:"passport_name" binding:"required"`
	FacebookName string `json:"facebook_name" binding:"required"`
	MemberCode   string `json:"member_code"`
	PriorityDate string `json:"priority_date"`
	FstPt        string `json:"fst_pt"`
	SndPt        string `json:"snd_pt"`
	TrdPt        string `json:"trd_pt"`
	Status       string `json:"status"`
	EventID      *int64 `json:"event_id"`
	OrderID      *int64 `json:"order_id"`
}

func (r ticketRequest) toDomain(id int64) domain.Ticket {
	status := r.Status
	if status == "" {
		status = "Pending"
	}
	return domain.Ticket{
		ID:           id,
		PassportName: r.PassportName,
		FacebookName: r.FacebookName,
		MemberCode:   r.MemberCode,
		PriorityDate: r.PriorityDate,
		FstPt:        r.FstPt,
		SndPt:        r.SndPt,
		TrdPt:        r.TrdPt,
		Status:       status,
		EventID:      r.EventID,
		OrderID:      r.OrderID,
	}
}

// loadAuthorized carga el ticket del path, resuelve la orden padre y aplica
// el predicado de acceso. Un ticket sin orden niega acceso a no-staff.
func (h *TicketHandler) loadAuthorized(c *gin.Context) (domain.Ticket, bool) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return domain.Ticket{}, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return domain.Ticket{}, false
	}

	ticket, err := h.tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return domain.Ticket{}, false
		}
		h.logger.Error("get ticket failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get ticket"})
		return domain.Ticket{}, false
	}

	ownership := domain.TicketOwnership{Ticket: ticket}
	if ticket.OrderID != nil {
		order, err := h.orders.GetByID(c.Request.Context(), *ticket.OrderID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			h.logger.Error("get parent order failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get ticket"})
			return domain.Ticket{}, false
		}
		if err == nil {
			ownership.Order = &order
		}
	}

	if !service.CanAccess(actor, ownership) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return domain.Ticket{}, false
	}
	return ticket, true
}
