package handler

import (
	"net/http"
	"time"

	"brocante/pkg/logger"
	"brocante/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter собирает маршруты админского API каталога.
// Чтение доступно любому аутентифицированному пользователю,
// создание и изменение - ролям manager/admin, удаление - только admin.
func SetupRouter(
	catalogHandler *CatalogHandler,
	productHandler *ProductHandler,
	uploadHandler *UploadHandler,
	auditHandler *AuditHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("admin"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "admin-service"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1/admin")
	api.Use(authMiddleware.Authenticate())
	{
		categories := api.Group("/categories")
		{
			categories.GET("", catalogHandler.GetAllCategories)
			categories.GET("/:id", catalogHandler.GetCategory)
			categories.GET("/:id/attributes", catalogHandler.ListCategoryAttributes)
			categories.POST("", authMiddleware.RequireRole("manager", "admin"), catalogHandler.CreateCategory)
			categories.POST("/:id/attributes", authMiddleware.RequireRole("manager", "admin"), catalogHandler.AddCategoryAttribute)
			categories.PUT("/:id", authMiddleware.RequireRole("manager", "admin"), catalogHandler.UpdateCategory)
			categories.PUT("/:id/attributes", authMiddleware.RequireRole("manager", "admin"), catalogHandler.ReplaceCategoryAttributes)
			categories.DELETE("/:id", authMiddleware.RequireRole("admin"), catalogHandler.DeleteCategory)
		}

		subcategories := api.Group("/subcategories")
		{
			subcategories.GET("", catalogHandler.GetAllSubcategories)
			subcategories.GET("/:id", catalogHandler.GetSubcategory)
			subcategories.GET("/:id/attributes", catalogHandler.ListSubcategoryAttributes)
			subcategories.POST("", authMiddleware.RequireRole("manager", "admin"), catalogHandler.CreateSubcategory)
			subcategories.POST("/:id/attributes", authMiddleware.RequireRole("manager", "admin"), catalogHandler.AddSubcategoryAttribute)
			subcategories.PUT("/:id", authMiddleware.RequireRole("manager", "admin"), catalogHandler.UpdateSubcategory)
			subcategories.PUT("/:id/attributes", authMiddleware.RequireRole("manager", "admin"), catalogHandler.ReplaceSubcategoryAttributes)
			subcategories.DELETE("/:id", authMiddleware.RequireRole("admin"), catalogHandler.DeleteSubcategory)
		}

		api.DELETE("/attributes/:id", authMiddleware.RequireRole("admin"), catalogHandler.DeleteAttribute)

		products := api.Group("/products")
		{
			products.GET("", productHandler.GetAllProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", authMiddleware.RequireRole("manager", "admin"), productHandler.CreateProduct)
			products.PUT("/:id", authMiddleware.RequireRole("manager", "admin"), productHandler.UpdateProduct)
			products.DELETE("/:id", authMiddleware.RequireRole("admin"), productHandler.DeleteProduct)
		}

		api.POST("/upload", authMiddleware.RequireRole("manager", "admin"), uploadHandler.Upload)
		api.GET("/audit", authMiddleware.RequireRole("admin"), auditHandler.ListRecent)
	}

	return router
}
