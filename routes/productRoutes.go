package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/controllers"
	"github.com/ndiayedev/jokkoshop-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)
	server.GET("/product/:id/price", controllers.GetProductPrice)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/product", controllers.CreateProduct)
		admin.PUT("/product/:id", controllers.UpdateProduct)
		admin.DELETE("/product/:id", controllers.DeleteProduct)
		admin.POST("/product/:id/restock", controllers.RestockProduct)
		admin.POST("/product-image", controllers.UploadProductImage)
		admin.GET("/products/low-stock", controllers.GetLowStockProducts)
		admin.GET("/products/stock-statistics", controllers.GetStockStatistics)
	}
}
