package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/controllers"
	"github.com/ndiayedev/jokkoshop-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	authed := server.Group("/order", middlewares.RequireAuth())
	{
		authed.POST("", controllers.CreateOrder)
		authed.POST("/availability", controllers.CheckAvailability)
		authed.GET("/:orderId", controllers.GetOrderById)
	}
	server.GET("/orders/mine", middlewares.RequireAuth(), controllers.GetMyOrders)

	employee := server.Group("/order", middlewares.RequireAuth(), middlewares.RequireEmployee())
	{
		employee.PATCH("/:orderId/status", controllers.UpdateOrderStatus)
	}

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/order", controllers.GetOrders)
		admin.DELETE("/order/:orderId", controllers.DeleteOrder)
		admin.GET("/orders/undelivered", controllers.GetUndeliveredOrders)
	}
}
