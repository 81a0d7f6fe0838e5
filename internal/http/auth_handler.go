package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ticket-hub/internal/domain"
	"ticket-hub/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticacion.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	jwtServ  *service.JWTService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		jwtServ:  jwtServ,
	}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	customer, err := h.authServ.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered, check your email for the verification code",
		"email":   customer.Email,
	})
}

// VerifyEmail maneja POST /auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email   string `json:"email" binding:"required,email"`
		OTPCode string `json:"otp_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify email request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.authServ.VerifyEmail(c.Request.Context(), req.Email, req.OTPCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusOK, gin.H{"message": "email already verified"})
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(err, service.ErrOTPInvalid), errors.Is(err, service.ErrInvalidEmail):
			// Codigo incorrecto y codigo vencido responden igual a proposito.
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
		default:
			h.logger.Error("verify email failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// ResendOTP maneja POST /auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid resend otp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.authServ.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusOK, gin.H{"message": "email already verified"})
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("resend otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resend otp"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	customer, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		case errors.Is(err, service.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		}
		return
	}

	tokens, err := h.jwtServ.GeneratePair(customer)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          customerPayload(customer),
	})
}

// ForgotPassword maneja POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid forgot password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.authServ.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(err, service.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("forgot password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start password reset"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset code sent"})
}

// ResetPassword maneja POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTPCode     string `json:"otp_code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.authServ.ResetPassword(c.Request.Context(), req.Email, req.OTPCode, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		case errors.Is(err, service.ErrOTPInvalid), errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
		default:
			h.logger.Error("reset password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// RefreshToken maneja POST /auth/refresh.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// Logout maneja POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid logout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	_ = h.jwtServ.RevokeRefresh(req.RefreshToken)
	c.Status(http.StatusNoContent)
}

func customerPayload(customer domain.Customer) gin.H {
	return gin.H{
		"id":           customer.ID,
		"email":        customer.Email,
		"name":         customer.Name,
		"is_staff":     customer.IsStaff,
		"is_superuser": customer.IsSuperuser,
	}
}
