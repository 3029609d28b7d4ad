package router

import (
	"github.com/bizflow/backend/internal/infrastructure/auth"
	"github.com/bizflow/backend/internal/infrastructure/logger"
	"github.com/bizflow/backend/internal/interfaces/http/handler"
	"github.com/bizflow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth         *handler.AuthHandler
	Checkout     *handler.CheckoutHandler
	Contact      *handler.ContactHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Opportunity  *handler.OpportunityHandler
	Subscription *handler.SubscriptionHandler
	Health       *handler.HealthHandler
}

// Config holds router dependencies
type Config struct {
	Handlers   Handlers
	JWTService *auth.JWTService
	Logger     *zap.Logger
	// AuthRequired turns on JWT enforcement for the tenant API surface.
	// Disabled in development where X-Tenant-ID alone identifies the tenant.
	AuthRequired bool
}

// New builds the gin engine with all middleware and routes registered
func New(cfg Config) *gin.Engine {
	engine := gin.New()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	h := cfg.Handlers

	// Probes and the payment callback sit outside the tenant surface
	engine.GET("/api/v1/health", h.Health.Health)
	engine.GET("/api/v1/health/ready", h.Health.Ready)
	engine.POST("/api/v1/payments/callback", h.Order.PaymentCallback)

	api := engine.Group("/api/v1")

	// Login needs a tenant but no token
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.Tenant())
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
	}

	tenantAPI := api.Group("")
	if cfg.AuthRequired && cfg.JWTService != nil {
		tenantAPI.Use(middleware.JWTAuth(cfg.JWTService))
	}
	tenantAPI.Use(middleware.Tenant())
	{
		tenantAPI.POST("/checkout", h.Checkout.Create)

		contacts := tenantAPI.Group("/contacts")
		{
			contacts.POST("", h.Contact.Create)
			contacts.GET("", h.Contact.List)
			contacts.GET("/:id", h.Contact.Get)
			contacts.PUT("/:id", h.Contact.Update)
			contacts.POST("/:id/stage", h.Contact.TransitionStage)
			contacts.DELETE("/:id", h.Contact.Delete)
		}

		products := tenantAPI.Group("/products")
		{
			products.POST("", h.Product.Create)
			products.GET("", h.Product.List)
			products.GET("/:id", h.Product.Get)
			products.PUT("/:id", h.Product.Update)
			products.POST("/:id/restock", h.Product.Restock)
			products.POST("/:id/activate", h.Product.Activate)
			products.POST("/:id/deactivate", h.Product.Deactivate)
			products.DELETE("/:id", h.Product.Delete)
		}

		orders := tenantAPI.Group("/orders")
		{
			orders.GET("", h.Order.List)
			orders.GET("/:id", h.Order.Get)
			orders.GET("/number/:number", h.Order.GetByNumber)
			orders.POST("/:id/status", h.Order.UpdateStatus)
			orders.POST("/:id/cancel", h.Order.Cancel)
		}

		opportunities := tenantAPI.Group("/opportunities")
		{
			opportunities.POST("", h.Opportunity.Create)
			opportunities.GET("", h.Opportunity.List)
			opportunities.GET("/:id", h.Opportunity.Get)
			opportunities.PUT("/:id/fields", h.Opportunity.SetFieldValue)
			opportunities.GET("/:id/fields", h.Opportunity.ListFieldValues)
		}

		webhooks := tenantAPI.Group("/webhooks")
		{
			webhooks.POST("", h.Subscription.Create)
			webhooks.GET("", h.Subscription.List)
			webhooks.GET("/:id", h.Subscription.Get)
			webhooks.POST("/:id/activate", h.Subscription.Activate)
			webhooks.POST("/:id/deactivate", h.Subscription.Deactivate)
			webhooks.DELETE("/:id", h.Subscription.Delete)
		}
	}

	return engine
}
