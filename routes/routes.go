package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpos/controllers"
	"salonpos/middleware"
	"salonpos/models"
	"salonpos/utils"
)

var (
	everyone = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleReceptionist, models.RoleStaff}
	front    = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleReceptionist}
	managers = []models.Role{models.RoleAdmin, models.RoleManager}
)

func InitializeRoutes(router *gin.Engine, h *controllers.Handlers, jwt *utils.JWT) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/login", h.Login)
	// Customers open their receipt from the SMS link without logging in.
	router.GET("/receipt/:token", h.GetReceiptByToken)

	pos := router.Group("/pos")
	pos.Use(middleware.AuthMiddleware(jwt, everyone...))
	{
		pos.POST("/quote", h.Quote)
		pos.POST("/checkout", h.ProcessTransaction)
		pos.GET("/bills", h.ListBills)
		pos.GET("/bills/:id", h.GetBill)
		pos.GET("/bills/:id/receipt", h.GetBillReceipt)
	}

	customers := router.Group("/customers")
	customers.Use(middleware.AuthMiddleware(jwt, everyone...))
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.GET("/:id/loyalty", h.GetCustomerLoyalty)
		customers.POST("", middleware.AuthMiddleware(jwt, front...), h.CreateCustomer)
		customers.PUT("/:id", middleware.AuthMiddleware(jwt, front...), h.UpdateCustomer)
		customers.POST("/:id/points", middleware.AuthMiddleware(jwt, managers...), h.AdjustPoints)
	}

	catalog := router.Group("/catalog")
	catalog.Use(middleware.AuthMiddleware(jwt, everyone...))
	{
		catalog.GET("/services", h.ListServices)
		catalog.GET("/inventory", h.ListInventory)
		catalog.GET("/inventory/low-stock", h.LowStock)

		write := catalog.Group("")
		write.Use(middleware.AuthMiddleware(jwt, managers...))
		write.POST("/services", h.CreateService)
		write.PUT("/services/:id", h.UpdateService)
		write.POST("/inventory", h.CreateProduct)
		write.PUT("/inventory/:id/stock", h.AdjustStock)
		write.POST("/inventory/:id/photo", h.UploadProductPhoto)
	}

	loyalty := router.Group("/loyalty")
	loyalty.Use(middleware.AuthMiddleware(jwt, everyone...))
	{
		loyalty.GET("/tiers", h.ListTiers)
		loyalty.GET("/transactions", h.ListLoyaltyTransactions)
		loyalty.PUT("/tiers/:id", middleware.AuthMiddleware(jwt, models.RoleAdmin), h.UpdateTier)
	}

	settings := router.Group("/settings")
	settings.Use(middleware.AuthMiddleware(jwt, everyone...))
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", middleware.AuthMiddleware(jwt, models.RoleAdmin), h.UpdateSettings)
	}

	marketing := router.Group("/marketing")
	marketing.Use(middleware.AuthMiddleware(jwt, managers...))
	{
		marketing.POST("/campaign", h.GenerateMarketingContent)
		marketing.POST("/sentiment", h.AnalyzeSentiment)
	}

	reports := router.Group("/reports")
	reports.Use(middleware.AuthMiddleware(jwt, managers...))
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/staff-sales", h.StaffSales)
	}
}
