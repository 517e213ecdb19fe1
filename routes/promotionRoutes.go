package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/controllers"
	"github.com/ndiayedev/jokkoshop-api/middlewares"
)

func PromotionRoutes(server *gin.Engine) {
	server.GET("/promotions/active", controllers.GetActivePromotions)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/promotion", controllers.CreatePromotion)
		admin.GET("/promotion", controllers.GetPromotions)
		admin.GET("/promotion/:id", controllers.GetPromotion)
		admin.PUT("/promotion/:id", controllers.UpdatePromotion)
		admin.PATCH("/promotion/:id/active", controllers.SetPromotionActive)
		admin.DELETE("/promotion/:id", controllers.DeletePromotion)
		admin.POST("/promotion/:id/products", controllers.AttachPromotionProduct)
		admin.DELETE("/promotion/:id/products/:productId", controllers.DetachPromotionProduct)
	}
}
