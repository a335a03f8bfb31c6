package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/middleware"
	"tally/internal/services"
	"tally/internal/store"
)

// NewRouter wires the full service stack on top of a store and returns the
// configured Gin engine.
func NewRouter(st *store.Store) *gin.Engine {
	userService := services.NewUserService(st)
	accountService := services.NewAccountService(st)
	categoryService := services.NewCategoryService(st)
	tagService := services.NewTagService(st)
	transactionService := services.NewTransactionService(st)
	reportService := services.NewReportService(st)
	exportService := services.NewExportService(st)
	importService := services.NewImportService(st)

	authHandler := NewAuthHandler(userService)
	accountHandler := NewAccountHandler(accountService)
	categoryHandler := NewCategoryHandler(categoryService)
	tagHandler := NewTagHandler(tagService)
	transactionHandler := NewTransactionHandler(transactionService)
	reportHandler := NewReportHandler(reportService)
	impExpHandler := NewImpExpHandler(exportService, importService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.POST("/recompute", accountHandler.RecomputeBalances)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	tags := protected.Group("/tags")
	tags.GET("", tagHandler.ListTags)
	tags.POST("", tagHandler.CreateTag)
	tags.PUT("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.Summary)

	protected.GET("/export", impExpHandler.Export)
	protected.GET("/import/template", impExpHandler.ImportTemplate)
	protected.POST("/import", impExpHandler.Import)

	return router
}
