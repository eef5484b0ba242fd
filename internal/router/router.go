// Package router wires services, handlers and middleware into the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "bizledger/internal/docs" // Import swagger docs
	"bizledger/internal/handlers"
	"bizledger/internal/middleware"
	"bizledger/internal/services"
	"bizledger/internal/store"
)

// New builds the gin engine for the ledger API on top of db.
func New(db *gorm.DB) *gin.Engine {
	ledger := store.New(db)

	// Initialize services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	companyService := services.NewCompanyService(db)
	categoryService := services.NewCategoryService(db)
	clientService := services.NewClientService(db)
	bankAccountService := services.NewBankAccountService(db)
	transactionService := services.NewTransactionService(ledger)
	reportService := services.NewReportService(ledger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	clientHandler := handlers.NewClientHandler(clientService)
	bankAccountHandler := handlers.NewBankAccountHandler(bankAccountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))
	admin := middleware.RequireAdmin()

	protected.GET("/auth/me", authHandler.Me)

	users := protected.Group("/users", admin)
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.PUT("/:id/status", userHandler.SetUserStatus)

	companies := protected.Group("/companies")
	companies.GET("", companyHandler.ListCompanies)
	companies.GET("/:id", companyHandler.GetCompany)
	companies.POST("", admin, companyHandler.CreateCompany)
	companies.PUT("/:id", admin, companyHandler.UpdateCompany)
	companies.DELETE("/:id", admin, companyHandler.DeleteCompany)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.POST("", admin, categoryHandler.CreateCategory)
	categories.PUT("/:id", admin, categoryHandler.UpdateCategory)
	categories.DELETE("/:id", admin, categoryHandler.DeleteCategory)

	clients := protected.Group("/clients")
	clients.GET("", clientHandler.ListClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.POST("", clientHandler.CreateClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", admin, clientHandler.DeleteClient)

	bankAccounts := protected.Group("/bank-accounts")
	bankAccounts.GET("", bankAccountHandler.ListBankAccounts)
	bankAccounts.GET("/:id", bankAccountHandler.GetBankAccount)
	bankAccounts.POST("", bankAccountHandler.CreateBankAccount)
	bankAccounts.PUT("/:id", bankAccountHandler.RenameBankAccount)
	bankAccounts.DELETE("/:id", admin, bankAccountHandler.DeleteBankAccount)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/approve", admin, transactionHandler.ApproveTransaction)
	transactions.POST("/:id/reject", admin, transactionHandler.RejectTransaction)

	reports := protected.Group("/reports")
	reports.GET("/profit-loss", reportHandler.ProfitLoss)
	reports.GET("/by-company", reportHandler.ByCompany)
	reports.GET("/by-client", reportHandler.ByClient)
	reports.GET("/by-category", reportHandler.ByCategory)
	reports.GET("/by-bank-account", reportHandler.ByBankAccount)
	reports.GET("/export-csv", reportHandler.ExportCSV)
	reports.GET("/export-pdf", reportHandler.ExportPDF)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
