package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ticket-hub/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	customerH *CustomerHandler,
	orderH *OrderHandler,
	ticketH *TicketHandler,
	catalogH *CatalogHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/verify-email", authH.VerifyEmail)
	auth.POST("/resend-otp", authH.ResendOTP)
	auth.POST("/login", authH.Login)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/logout", authH.Logout)

	// Catalogo publico, lectura y escritura sin token.
	r.GET("/banners", catalogH.ListBanners)
	r.POST("/banners", catalogH.CreateBanner)
	r.GET("/banners/:id", catalogH.GetBanner)
	r.PUT("/banners/:id", catalogH.UpdateBanner)
	r.DELETE("/banners/:id", catalogH.DeleteBanner)

	r.GET("/categories", catalogH.ListCategories)
	r.POST("/categories", catalogH.CreateCategory)
	r.GET("/categories/:id", catalogH.GetCategory)
	r.PUT("/categories/:id", catalogH.UpdateCategory)
	r.DELETE("/categories/:id", catalogH.DeleteCategory)

	r.GET("/events", catalogH.ListEvents)
	r.POST("/events", catalogH.CreateEvent)
	r.GET("/events/:id", catalogH.GetEvent)
	r.PUT("/events/:id", catalogH.UpdateEvent)
	r.DELETE("/events/:id", catalogH.DeleteEvent)

	// Recursos con dueño detras del JWT.
	protected := r.Group("/", JWTAuthMiddleware(jwtSvc))

	protected.GET("/customers", customerH.List)
	protected.GET("/customers/:id", customerH.Get)
	protected.PUT("/customers/:id", customerH.Update)

	protected.GET("/orders", orderH.List)
	protected.POST("/orders", orderH.Create)
	protected.GET("/orders/:id", orderH.Get)
	protected.PUT("/orders/:id", orderH.Update)
	protected.DELETE("/orders/:id", orderH.Delete)

	protected.GET("/tickets", ticketH.List)
	protected.POST("/tickets", ticketH.Create)
	protected.GET("/tickets/:id", ticketH.Get)
	protected.PUT("/tickets/:id", ticketH.Update)
	protected.DELETE("/tickets/:id", ticketH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
