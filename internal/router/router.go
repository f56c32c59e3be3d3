package router

import (
	"posmorales/internal/config"
	"posmorales/internal/events"
	"posmorales/internal/handler"
	"posmorales/internal/infra"
	"posmorales/internal/middleware"
	"posmorales/internal/service"
	"posmorales/internal/settings"
	"posmorales/internal/upstream"
	"posmorales/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps are the shared singletons built in main and consumed by the services.
type Deps struct {
	Client   *upstream.Client
	Redis    *redis.Client
	CB       *infra.CircuitBreaker
	Broker   *events.Broker
	Settings *settings.Store
	Tables   service.TableService
	Catalog  service.CatalogService
	Carts    service.CartService
	Checkout service.CheckoutService
	Invoices service.InvoiceService
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← upstream.Client ← backend API
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Services not shared with the background goroutines ───────────────────
	dispatcher := worker.NewDispatcher(deps.Redis)
	customerSvc := service.NewCustomerService(deps.Client)
	reportSvc := service.NewReportService(dispatcher, cfg.ReportStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cartH := handler.NewCartHandler(deps.Carts)
	checkoutH := handler.NewCheckoutHandler(deps.Checkout)
	catalogH := handler.NewCatalogHandler(deps.Catalog)
	customersH := handler.NewCustomersHandler(customerSvc)
	tablesH := handler.NewTablesHandler(deps.Tables)
	invoicesH := handler.NewInvoicesHandler(deps.Invoices)
	reportsH := handler.NewReportsHandler(reportSvc)
	settingsH := handler.NewSettingsHandler(deps.Settings)
	eventsH := handler.NewEventsHandler(deps.Broker)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(deps.Redis, deps.CB, deps.Broker))

	v1 := r.Group("/v1")
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", cartH.Get)
			cart.POST("/items", cartH.AddItem)
			cart.POST("/items/increment", cartH.Increment)
			cart.POST("/items/decrement", cartH.Decrement)
			cart.DELETE("/items/:productId", cartH.Remove)
			cart.POST("/clear", cartH.Clear)
			cart.POST("/cancel", cartH.Cancel)
			cart.PUT("/discount", cartH.SetDiscount)
			cart.PUT("/notes", cartH.SetNotes)
			cart.PUT("/customer", cartH.SetCustomer)
			cart.PUT("/table", cartH.SelectTable)
		}

		// Double taps on cobrar must not create two sales
		guard := middleware.CheckoutGuard(deps.Redis, cfg.TerminalID)
		v1.POST("/checkout", guard, checkoutH.Checkout)
		v1.POST("/checkout/resume", guard, checkoutH.ResumePayment)

		v1.GET("/products", catalogH.Products)
		v1.GET("/categories", catalogH.Categories)
		v1.POST("/catalog/refresh", catalogH.Refresh)

		v1.GET("/customers", customersH.Search)
		v1.GET("/customers/:id", customersH.Get)
		v1.POST("/customers", customersH.Create)

		tables := v1.Group("/tables")
		{
			tables.GET("", tablesH.List)
			tables.POST("/refresh", tablesH.Refresh)
			tables.GET("/:id", tablesH.Get)
			tables.GET("/:id/session", tablesH.Session)
			tables.POST("/:id/open", tablesH.Open)
			tables.DELETE("/:id/session/items", tablesH.RemoveItem)
			tables.PUT("/:id/status", tablesH.ChangeStatus)
		}

		v1.GET("/invoices", invoicesH.List)
		v1.GET("/invoices/:id", invoicesH.Get)
		v1.POST("/invoices/:id/void", invoicesH.Void)
		v1.GET("/dashboard", invoicesH.Dashboard)

		v1.POST("/reports/sales", reportsH.Export)

		v1.GET("/settings", settingsH.Get)
		v1.PUT("/settings", settingsH.Update)

		v1.GET("/events", eventsH.Stream)
	}

	return r
}
