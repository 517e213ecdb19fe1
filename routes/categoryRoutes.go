package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/controllers"
	"github.com/ndiayedev/jokkoshop-api/middlewares"
)

func CategoryRoutes(server *gin.Engine) {
	server.GET("/category", controllers.GetCategories)
	server.GET("/category/:id", controllers.GetCategory)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/category", controllers.CreateCategory)
		admin.PUT("/category/:id", controllers.UpdateCategory)
		admin.DELETE("/category/:id", controllers.DeleteCategory)
	}
}
