// Package v1 provides HTTP API version 1: the local IPC surface consumed
// by the desktop shell.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"barkeep/internal/domain/auth"
	"barkeep/internal/domain/cashbox"
	"barkeep/internal/domain/ledger"
	"barkeep/internal/domain/product"
	"barkeep/internal/domain/reports"
	"barkeep/internal/domain/sales"
	"barkeep/internal/domain/spending"
	"barkeep/internal/infrastructure/http/v1/handlers"
	"barkeep/internal/infrastructure/http/v1/middleware"
	"barkeep/pkg/logger"
)

// RouterConfig holds everything the router wires together. All services
// are constructed by the entry point and injected here; the router owns
// no storage handles of its own.
type RouterConfig struct {
	Pool   *pgxpool.Pool
	Logger *logger.Logger

	AuthService     *auth.Service
	ProductService  *product.Service
	StockService    *ledger.Service
	SalesProcessor  *sales.Processor
	SpendingService *spending.Service
	CashboxService  *cashbox.Service
	ReportsService  *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware. ErrorHandler must sit outside Recovery: Recovery
	// converts a panic into a context error and ErrorHandler writes the
	// response on the way out.
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	base := handlers.NewBaseHandler()

	// Health endpoints, no auth required
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		v1.POST("/auth/login", authHandler.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))

		productHandler := handlers.NewProductHandler(base, cfg.ProductService)
		products := protected.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
			products.GET("/barcode/:barcode", productHandler.GetByBarcode)
		}

		stockHandler := handlers.NewStockHandler(base, cfg.StockService)
		stock := protected.Group("/stock")
		{
			stock.GET("", stockHandler.List)
			stock.GET("/movements", stockHandler.Movements)
			stock.GET("/:id", stockHandler.Get)
			stock.PUT("/:id", stockHandler.Adjust)
			stock.PUT("/:id/levels", stockHandler.SetReorderLevels)
			stock.POST("/:id/transfer", stockHandler.Transfer)
			stock.POST("/:id/receive", stockHandler.Receive)
		}

		salesHandler := handlers.NewSalesHandler(base, cfg.SalesProcessor)
		salesGroup := protected.Group("/sales")
		{
			salesGroup.POST("", salesHandler.Create)
			salesGroup.GET("", salesHandler.List)
			salesGroup.GET("/:id", salesHandler.Get)
		}
		bills := protected.Group("/pending-bills")
		{
			bills.POST("", salesHandler.CreatePendingBill)
			bills.GET("", salesHandler.ListPendingBills)
			bills.GET("/:id", salesHandler.GetPendingBill)
			bills.PUT("/:id", salesHandler.UpdatePendingBill)
			bills.DELETE("/:id", salesHandler.DeletePendingBill)
			bills.POST("/:id/clear", salesHandler.ClearPendingBill)
		}

		spendingHandler := handlers.NewSpendingHandler(base, cfg.SpendingService)
		spendings := protected.Group("/spendings")
		{
			spendings.POST("", spendingHandler.Create)
			spendings.GET("", spendingHandler.List)
			spendings.DELETE("/:id", spendingHandler.Delete)
		}

		cashboxHandler := handlers.NewCashboxHandler(base, cfg.CashboxService)
		cashboxGroup := protected.Group("/cashbox")
		{
			cashboxGroup.POST("/open", cashboxHandler.OpenDay)
			cashboxGroup.POST("/close", cashboxHandler.CloseDay)
			cashboxGroup.GET("/current", cashboxHandler.Current)
			cashboxGroup.GET("/history", cashboxHandler.History)
		}

		reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)
		reportsGroup := protected.Group("/reports")
		{
			reportsGroup.GET("/top-sellers", reportsHandler.TopSellers)
			reportsGroup.GET("/sales-summary", reportsHandler.SalesSummary)
			reportsGroup.GET("/spending-summary", reportsHandler.SpendingSummary)
			reportsGroup.GET("/low-stock", reportsHandler.LowStock)
			reportsGroup.GET("/daily-summary", reportsHandler.DailySummary)
		}
	}

	return router
}
