package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/interfaces/http/handler"
	"github.com/mercearia/backend/internal/interfaces/http/middleware"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Category      *handler.CategoryHandler
	Product       *handler.ProductHandler
	Pricing       *handler.PricingHandler
	Supplier      *handler.SupplierHandler
	Customer      *handler.CustomerHandler
	Inventory     *handler.InventoryHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Sale          *handler.SaleHandler
	CashRegister  *handler.CashRegisterHandler
	Finance       *handler.FinanceHandler
	Report        *handler.ReportHandler
	System        *handler.SystemHandler
}

// RouteMiddleware is the middleware applied per route group. Nil entries
// are skipped.
type RouteMiddleware struct {
	// Auth authenticates the bearer token
	Auth gin.HandlerFunc
	// Protected runs after Auth on every authenticated route
	Protected []gin.HandlerFunc
	// Public runs on the unauthenticated store and login routes
	Public []gin.HandlerFunc
}

// Setup mounts the health check at the root and every API group under the
// router's base path
func Setup(engine *gin.Engine, h Handlers, mw RouteMiddleware, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, opts...)
	r.Register(Groups(h, mw)...)
	r.Setup()
	return r
}

// Groups builds the domain groups of the API
func Groups(h Handlers, mw RouteMiddleware) []RouteRegistrar {
	protected := func(name, prefix string) *DomainGroup {
		return NewDomainGroup(name, prefix).Use(mw.Auth).Use(mw.Protected...)
	}
	management := roles(identity.ManagementRoles)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.Info).
		GET("/ping", h.System.Ping)

	public := NewDomainGroup("public", "").Use(mw.Public...)
	public.POST("/auth/login", h.Auth.Login)
	public.POST("/auth/refresh", h.Auth.Refresh)
	public.POST("/stores", h.Auth.CreateStore)

	session := protected("session", "")
	session.POST("/auth/logout", h.Auth.Logout)
	session.GET("/store", h.Auth.CurrentStore)

	users := protected("users", "/users").Use(management)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.PUT("/:id", h.User.Update)

	catalog := protected("catalog", "")
	catalog.Group("categories", "/categories").
		POST("", h.Category.Create).
		GET("", h.Category.List)
	catalog.Group("products", "/products").
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/barcode/:ean", h.Product.GetByBarcode).
		GET("/:id", h.Product.GetByID).
		PATCH("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		POST("/:id/photo", h.Product.UploadPhoto).
		GET("/:id/photo", h.Product.Photo).
		GET("/:id/price/simulate", h.Pricing.Simulate).
		POST("/:id/prices", h.Pricing.Publish).
		GET("/:id/prices", h.Pricing.History).
		GET("/:id/quote", h.Pricing.Quote)
	catalog.Group("promos", "/promos").
		POST("", h.Pricing.CreatePromo).
		GET("", h.Pricing.ListPromos).
		POST("/:id/deactivate", h.Pricing.DeactivatePromo)

	partners := protected("partners", "")
	partners.Group("suppliers", "/suppliers").
		POST("", h.Supplier.Create).
		GET("", h.Supplier.List).
		GET("/:id", h.Supplier.GetByID).
		POST("/:id/deactivate", h.Supplier.Deactivate)
	partners.Group("customers", "/customers").
		POST("", h.Customer.Create).
		GET("", h.Customer.List).
		GET("/:id", h.Customer.GetByID)

	inventory := protected("inventory", "")
	inventory.Group("stock", "/stock").
		POST("/adjustments", h.Inventory.Adjust).
		GET("/alerts", h.Inventory.ReorderAlerts).
		GET("/:id", h.Inventory.GetStock).
		GET("/:id/moves", h.Inventory.ListMoves).
		GET("/:id/replay", h.Inventory.Replay)
	inventory.Group("sessions", "/inventory/sessions").
		POST("", h.Inventory.CreateSession).
		GET("/:id", h.Inventory.GetSession).
		POST("/:id/counts", h.Inventory.RegisterCount).
		POST("/:id/reconcile", h.Inventory.Reconcile)

	trade := protected("trade", "")
	trade.Group("purchases", "/purchases").
		POST("", h.PurchaseOrder.Create).
		GET("", h.PurchaseOrder.List).
		GET("/:id", h.PurchaseOrder.GetByID).
		POST("/:id/submit", h.PurchaseOrder.Submit).
		POST("/:id/receipts", h.PurchaseOrder.Receive).
		POST("/:id/cancel", h.PurchaseOrder.Cancel).
		GET("/:id/payables", h.PurchaseOrder.Payables)
	trade.Group("sales", "/sales").
		POST("", h.Sale.Open).
		GET("/:id", h.Sale.GetByID).
		POST("/:id/items", h.Sale.AddItem).
		DELETE("/:id/items/:item_id", h.Sale.RemoveItem).
		POST("/:id/pay", h.Sale.Pay).
		POST("/:id/cancel", h.Sale.Cancel)
	trade.Group("cash-registers", "/cash-registers").
		POST("", h.CashRegister.Create).
		GET("", h.CashRegister.List).
		POST("/:id/open", h.CashRegister.Open).
		POST("/:id/close", h.CashRegister.Close)

	finance := protected("finance", "/finance").Use(management)
	finance.GET("/cash-flow", h.Finance.CashFlow)
	finance.POST("/payables/:id/settle", h.Finance.SettlePayable)
	finance.POST("/payables/:id/cancel", h.Finance.CancelPayable)

	reports := protected("reports", "/reports").Use(management)
	reports.GET("/sales", h.Report.SalesByDay)
	reports.GET("/turnover", h.Report.StockTurnover)
	reports.GET("/reorder", h.Report.ReorderList)

	return []RouteRegistrar{system, public, session, users, catalog, partners, inventory, trade, finance, reports}
}

func roles(set []identity.Role) gin.HandlerFunc {
	names := make([]string, len(set))
	for i, r := range set {
		names[i] = r.String()
	}
	return middleware.RequireRoles(names...)
}
