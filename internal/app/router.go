// internal/app/router.go
package app

import (
	productHandler "sokohub-service/internal/handlers/product"
	searchHandler "sokohub-service/internal/handlers/search"
	subscriptionHandler "sokohub-service/internal/handlers/subscription"
	tierHandler "sokohub-service/internal/handlers/tier"
	"sokohub-service/internal/metrics"
	"sokohub-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	SearchHandler       *searchHandler.SearchHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	ProductHandler      *productHandler.ProductHandler
	TierHandler         *tierHandler.TierHandler
	BillingAuth         *middleware.BillingAuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health & Metrics ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ==================== Search ====================
	api.GET("/search", h.SearchHandler.Search)

	// ==================== Tiers ====================
	tiers := api.Group("/tiers")
	{
		tiers.GET("", h.TierHandler.ListTiers)
		tiers.POST("/reload", h.BillingAuth.Auth(), h.TierHandler.ReloadCatalog)
	}

	// ==================== Billing boundary ====================
	billing := api.Group("/billing")
	billing.Use(h.BillingAuth.Auth())
	{
		billing.POST("/subscriptions", h.SubscriptionHandler.Purchase)
		billing.POST("/renewal-confirmed", h.SubscriptionHandler.RenewalConfirmed)
		billing.POST("/payment-failed", h.SubscriptionHandler.PaymentFailed)
	}

	// ==================== Vendor actions ====================
	vendors := api.Group("/vendors/:vendor_id")
	{
		vendors.POST("/subscriptions/:subscription_id/cancel", h.SubscriptionHandler.Cancel)
		vendors.GET("/products", h.ProductHandler.ListVendorProducts)
		vendors.PUT("/products/:product_id", h.ProductHandler.UpdateProduct)
		vendors.PUT("/products/:product_id/deactivate", h.ProductHandler.DeactivateProduct)
		vendors.PUT("/products/:product_id/activate", h.ProductHandler.ActivateProduct)
	}

	// ==================== Products ====================
	api.POST("/products", h.ProductHandler.CreateProduct)
}
