package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"desadarit/internal/api/middleware"
	"desadarit/internal/auth"
	"desadarit/internal/config"
	"desadarit/internal/storage"
)

// RegisterRoutes wires every handler under /api. Reads are public; writes
// require a token, and complaint triage additionally requires the admin role.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	authService *auth.Service,
	store *storage.Store,
	logger *slog.Logger,
	cfg *config.Config,
) {
	uploadHandler := NewUploadHandler(store, logger, cfg.Upload.BaseURL, cfg.Upload.MaxBytes, cfg.Upload.ClamdAddr)
	authHandler := NewAuthHandler(db, authService)
	newsHandler := NewNewsHandler(db, store)
	shopHandler := NewShopHandler(db, store)
	organizationHandler := NewOrganizationHandler(db, store)
	bannerHandler := NewBannerHandler(db, store)
	profileHandler := NewProfileHandler(db, store, uploadHandler)
	infographicsHandler := NewInfographicsHandler(db)
	contactHandler := NewContactHandler(db)
	complaintHandler := NewComplaintHandler(db)
	apbHandler := NewAPBHandler(db)
	dashboardHandler := NewDashboardHandler(db)

	authMiddleware := middleware.AuthMiddleware(authService)
	adminOnly := middleware.RequireAdmin()

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		newsGroup := api.Group("/news")
		{
			newsGroup.GET("", newsHandler.List)
			newsGroup.GET("/:id", newsHandler.Get)
			newsGroup.POST("", authMiddleware, newsHandler.Create)
			newsGroup.PUT("/:id", authMiddleware, newsHandler.Update)
			newsGroup.DELETE("/:id", authMiddleware, newsHandler.Delete)
			newsGroup.POST("/upload", authMiddleware, uploadHandler.Handle)
		}

		shopGroup := api.Group("/shop")
		{
			shopGroup.GET("", shopHandler.List)
			shopGroup.GET("/:id", shopHandler.Get)
			shopGroup.POST("", authMiddleware, shopHandler.Create)
			shopGroup.PUT("/:id", authMiddleware, shopHandler.Update)
			shopGroup.DELETE("/:id", authMiddleware, shopHandler.Delete)
			shopGroup.POST("/upload", authMiddleware, uploadHandler.Handle)
		}

		organizationGroup := api.Group("/organization")
		{
			organizationGroup.GET("", organizationHandler.List)
			organizationGroup.GET("/:id", organizationHandler.Get)
			organizationGroup.POST("", authMiddleware, organizationHandler.Create)
			organizationGroup.PUT("/:id", authMiddleware, organizationHandler.Update)
			organizationGroup.DELETE("/:id", authMiddleware, organizationHandler.Delete)
			organizationGroup.POST("/upload", authMiddleware, uploadHandler.Handle)
		}

		bannerGroup := api.Group("/banners")
		{
			bannerGroup.GET("", bannerHandler.List)
			bannerGroup.GET("/:id", bannerHandler.Get)
			bannerGroup.POST("", authMiddleware, bannerHandler.Create)
			bannerGroup.PUT("/:id", authMiddleware, bannerHandler.Update)
			bannerGroup.DELETE("/:id", authMiddleware, bannerHandler.Delete)
			bannerGroup.POST("/upload", authMiddleware, uploadHandler.Handle)
		}

		profileGroup := api.Group("/profile")
		{
			profileGroup.GET("", profileHandler.Get)
			profileGroup.PUT("", authMiddleware, profileHandler.Update)
			profileGroup.POST("/upload", authMiddleware, profileHandler.Upload)
		}

		api.GET("/infographics", infographicsHandler.Get)
		api.PUT("/infographics", authMiddleware, infographicsHandler.Update)

		api.GET("/contact-settings", contactHandler.Get)
		api.PUT("/contact-settings", authMiddleware, contactHandler.Update)

		complaintGroup := api.Group("/complaints")
		{
			complaintGroup.POST("", complaintHandler.Create)
			complaintGroup.GET("", authMiddleware, adminOnly, complaintHandler.List)
			complaintGroup.GET("/:id", authMiddleware, adminOnly, complaintHandler.Get)
			complaintGroup.PUT("/:id", authMiddleware, adminOnly, complaintHandler.Update)
			complaintGroup.DELETE("/:id", authMiddleware, adminOnly, complaintHandler.Delete)
		}

		apbGroup := api.Group("/apb")
		{
			apbGroup.GET("/years", apbHandler.ListYears)
			apbGroup.GET("/years/:id", apbHandler.GetYear)
			apbGroup.POST("/years", authMiddleware, apbHandler.CreateYear)
			apbGroup.PUT("/years/:id", authMiddleware, apbHandler.UpdateYear)
			apbGroup.DELETE("/years/:id", authMiddleware, apbHandler.DeleteYear)

			apbGroup.GET("/categories/income", apbHandler.ListIncomeCategories)
			apbGroup.POST("/categories/income", authMiddleware, apbHandler.CreateIncomeCategory)
			apbGroup.PUT("/categories/income/:id", authMiddleware, apbHandler.UpdateIncomeCategory)
			apbGroup.DELETE("/categories/income/:id", authMiddleware, apbHandler.DeleteIncomeCategory)

			apbGroup.GET("/categories/expenditure", apbHandler.ListExpenditureCategories)
			apbGroup.POST("/categories/expenditure", authMiddleware, apbHandler.CreateExpenditureCategory)
			apbGroup.PUT("/categories/expenditure/:id", authMiddleware, apbHandler.UpdateExpenditureCategory)
			apbGroup.DELETE("/categories/expenditure/:id", authMiddleware, apbHandler.DeleteExpenditureCategory)

			apbGroup.GET("/income", apbHandler.ListIncome)
			apbGroup.GET("/income/year/:yearId", apbHandler.ListIncomeByYear)
			apbGroup.GET("/income/:id", apbHandler.GetIncome)
			apbGroup.POST("/income", authMiddleware, apbHandler.CreateIncome)
			apbGroup.PUT("/income/:id", authMiddleware, apbHandler.UpdateIncome)
			apbGroup.DELETE("/income/:id", authMiddleware, apbHandler.DeleteIncome)

			apbGroup.GET("/expenditure", apbHandler.ListExpenditure)
			apbGroup.GET("/expenditure/year/:yearId", apbHandler.ListExpenditureByYear)
			apbGroup.GET("/expenditure/:id", apbHandler.GetExpenditure)
			apbGroup.POST("/expenditure", authMiddleware, apbHandler.CreateExpenditure)
			apbGroup.PUT("/expenditure/:id", authMiddleware, apbHandler.UpdateExpenditure)
			apbGroup.DELETE("/expenditure/:id", authMiddleware, apbHandler.DeleteExpenditure)

			apbGroup.GET("/summary", apbHandler.Summary)
			apbGroup.GET("/summary/:yearId", apbHandler.SummaryByYear)
		}

		api.GET("/dashboard/stats", authMiddleware, dashboardHandler.Stats)
	}
}
