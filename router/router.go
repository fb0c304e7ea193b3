package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restoran-pos/backend/config"
	"github.com/restoran-pos/backend/controllers"
	"github.com/restoran-pos/backend/middlewares"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	orderCtrl := controllers.NewOrderController(db)
	productCtrl := controllers.NewProductController(db)
	expenseCtrl := controllers.NewExpenseController(db)
	templateCtrl := controllers.NewTemplateController(db)
	reportCtrl := controllers.NewReportController(db)
	historyCtrl := controllers.NewHistoryController(db)
	archiveCtrl := controllers.NewArchiveController(db)
	exportCtrl := controllers.NewExportController(db)
	backupCtrl := controllers.NewBackupController(db, cfg.BackupDir, cfg.BackupKeep)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login
	public := r.Group("/api/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.NewRateLimiter(300, 60).RateLimit())
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/auth/me", userCtrl.Me)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)

	// PRODUCTS (read)
	auth.GET("/products", productCtrl.GetAllProducts)

	// SESSIONS
	auth.POST("/sessions/start", sessionCtrl.StartSession)
	auth.POST("/sessions/end", sessionCtrl.EndSession)
	auth.GET("/sessions/active", sessionCtrl.GetActiveSessions)
	auth.GET("/sessions/stats", sessionCtrl.GetStats)
	auth.GET("/sessions/history", historyCtrl.GetHistory)
	auth.GET("/sessions/table/:table_id", sessionCtrl.GetSessionsByTable)

	// ORDERS
	auth.POST("/orders/add", orderCtrl.AddItem)
	auth.POST("/orders/remove", orderCtrl.RemoveItem)
	auth.GET("/orders/session/:session_id", orderCtrl.GetSessionItems)

	// EXPENSES
	auth.POST("/expenses", expenseCtrl.AddExpense)
	auth.GET("/expenses", expenseCtrl.GetAllExpenses)
	auth.PATCH("/expenses/:expense_id", expenseCtrl.UpdateExpense)
	auth.DELETE("/expenses/:expense_id", expenseCtrl.DeleteExpense)
	auth.GET("/expenses/daily", expenseCtrl.GetDailyExpenses)
	auth.GET("/expenses/weekly", expenseCtrl.GetWeeklyExpenses)
	auth.GET("/expenses/monthly", expenseCtrl.GetMonthlyExpenses)
	auth.GET("/expenses/categories", expenseCtrl.GetCategories)
	auth.POST("/expenses/categories", expenseCtrl.AddCategory)

	// EXPENSE TEMPLATES
	auth.GET("/expense-templates", templateCtrl.GetAllTemplates)
	auth.POST("/expense-templates", templateCtrl.AddTemplate)
	auth.DELETE("/expense-templates/:template_id", templateCtrl.DeleteTemplate)

	// REPORTS
	auth.GET("/reports/daily", reportCtrl.Daily)
	auth.GET("/reports/weekly", reportCtrl.Weekly)
	auth.GET("/reports/monthly", reportCtrl.Monthly)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := auth.Group("/")
	admin.Use(middlewares.RequireAdmin())
	{
		admin.POST("auth/register", userCtrl.Register)
		admin.GET("auth/users", userCtrl.GetAllUsers)

		admin.PATCH("tables/:table_id/status", tableCtrl.UpdateTableStatus)

		admin.POST("products", productCtrl.CreateProduct)
		admin.PATCH("products/:product_id", productCtrl.UpdateProduct)
		admin.PATCH("products/:product_id/toggle", productCtrl.ToggleProduct)

		admin.GET("archive/months", archiveCtrl.GetMonths)
		admin.GET("archive/:month", archiveCtrl.GetMonth)

		admin.GET("export/excel", exportCtrl.Excel)

		admin.POST("backup/create", backupCtrl.CreateBackup)
		admin.POST("backup/restore", backupCtrl.RestoreBackup)
	}

	return r
}
