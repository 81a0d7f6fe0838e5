package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ticket-hub/internal/repository"
	"ticket-hub/internal/service"
)

// CustomerHandler expone el directorio de cuentas: cada cliente ve y edita
// solo su propia cuenta, staff ve todas.
type CustomerHandler struct {
	logger    *zap.Logger
	customers repository.CustomerRepository
}

func NewCustomerHandler(logger *zap.Logger, customers repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{logger: logger, customers: customers}
}

// List maneja GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	scope := service.ScopeListing(actor)
	if scope.All {
		customers, err := h.customers.List(c.Request.Context())
		if err != nil {
			h.logger.Error("list customers failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list customers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers})
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), scope.CustomerID)
	if err != nil {
		h.logger.Error("get customer failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": []any{customer}})
}

// Get maneja GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id := c.Param("id")
	if !actor.Role.Privileged() && actor.CustomerID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		h.logger.Error("get customer failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// Update maneja PUT /customers/:id. Los flags de rol no son editables por
// esta via.
func (h *CustomerHandler) Update(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id := c.Param("id")
	if !actor.Role.Privileged() && actor.CustomerID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot update another customer's profile"})
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update customer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.customers.UpdateProfile(c.Request.Context(), id, req.Email, req.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		h.logger.Error("update customer failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer updated"})
}
