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

// OrderHandler expone ordenes con acceso por propiedad directa.
type OrderHandler struct {
	logger *zap.Logger
	orders repository.OrderRepository
}

func NewOrderHandler(logger *zap.Logger, orders repository.OrderRepository) *OrderHandler {
	return &OrderHandler{logger: logger, orders: orders}
}

// List maneja GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var (
		orders []domain.Order
		err    error
	)
	scope := service.ScopeListing(actor)
	if scope.All {
		orders, err = h.orders.List(c.Request.Context())
	} else {
		orders, err = h.orders.ListByCustomer(c.Request.Context(), scope.CustomerID)
	}
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get maneja GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Create maneja POST /orders: la orden queda ligada al actor autenticado.
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		EventID *int64 `json:"event_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	customerID := actor.CustomerID
	order, err := h.orders.Create(c.Request.Context(), domain.Order{
		CustomerID: &customerID,
		EventID:    req.EventID,
	})
	if err != nil {
		h.logger.Error("create order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// Update maneja PUT /orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	order, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	var req struct {
		EventID *int64 `json:"event_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	order.EventID = req.EventID
	if err := h.orders.Update(c.Request.Context(), order); err != nil {
		h.logger.Error("update order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Delete maneja DELETE /orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	order, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), order.ID); err != nil {
		h.logger.Error("delete order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete order"})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadAuthorized carga la orden del path y aplica el predicado de acceso;
// responde el error apropiado y devuelve ok en false si la request no sigue.
func (h *OrderHandler) loadAuthorized(c *gin.Context) (domain.Order, bool) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return domain.Order{}, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return domain.Order{}, false
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return domain.Order{}, false
		}
		h.logger.Error("get order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get order"})
		return domain.Order{}, false
	}

	if !service.CanAccess(actor, order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return domain.Order{}, false
	}
	return order, true
}
