package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/declaramei/express-api/internal/config"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/internal/presentation/http/handler"
	"github.com/declaramei/express-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health      *handler.HealthHandler
	Catalog     *handler.CatalogHandler
	Customer    *handler.CustomerHandler
	CashSession *handler.CashSessionHandler
	Checkout    *handler.CheckoutHandler
	Sale        *handler.SaleHandler
	Receivable  *handler.ReceivableHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		v1.GET("/health", h.Health.Check)

		registerCatalogRoutes(v1, h)
		registerCustomerRoutes(v1, h)
		registerCashSessionRoutes(v1, h, deps)
		registerCheckoutRoutes(v1, h, deps)
		registerSaleRoutes(v1, h)
		registerReceivableRoutes(v1, h, deps)
		registerPrinterRoutes(v1, h)
	}

	return router
}

// idempotent replays a retried request when the client sends a key
func idempotent(deps *Deps) gin.HandlerFunc {
	return middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.GET("/:id", h.Catalog.GetProduct)
	}

	services := v1.Group("/services")
	{
		services.GET("", h.Catalog.ListServices)
		services.GET("/:id", h.Catalog.GetService)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
	}
}

func registerCashSessionRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := v1.Group("/cash-sessions")
	{
		sessions.POST("", h.CashSession.Open)
		sessions.GET("", h.CashSession.List)
		sessions.GET("/current", h.CashSession.Current)
		sessions.GET("/:id", h.CashSession.Get)
		sessions.GET("/:id/totals", h.CashSession.Totals)
		sessions.POST("/:id/movements", idempotent(deps), h.CashSession.PostMovement)
		sessions.POST("/:id/close", h.CashSession.Close)
	}
}

func registerCheckoutRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	checkout := v1.Group("/checkout")
	{
		checkout.GET("", h.Checkout.Get)
		checkout.DELETE("", h.Checkout.Cancel)
		checkout.POST("/items", h.Checkout.AddItem)
		checkout.PUT("/items/:kind/:id", h.Checkout.SetQuantity)
		checkout.POST("/payments", idempotent(deps), h.Checkout.AddPayment)
		checkout.DELETE("/payments/:index", h.Checkout.RemovePayment)
		checkout.PUT("/tendered", h.Checkout.SetTendered)
		checkout.PUT("/customer", h.Checkout.SetCustomer)
		checkout.PUT("/due-date", h.Checkout.SetDueDate)
		// Finalizing requires an idempotency key so a retried request cannot sell twice
		checkout.POST("/finalize", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Checkout.Finalize)
	}
}

func registerSaleRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
	}
}

func registerReceivableRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	receivables := v1.Group("/receivables")
	{
		receivables.GET("", h.Receivable.List)
		receivables.GET("/:id", h.Receivable.Get)
		receivables.POST("/:id/pay", idempotent(deps), h.Receivable.MarkPaid)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/sales/:id", h.Printer.PrintSaleReceipt)
		printerGroup.POST("/cash-sessions/:id", h.Printer.PrintCashReport)
	}
}
