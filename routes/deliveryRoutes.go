package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/controllers"
	"github.com/ndiayedev/jokkoshop-api/middlewares"
)

func DeliveryRoutes(server *gin.Engine) {
	server.POST("/deliveries/fee", controllers.GetDeliveryFee)

	employee := server.Group("/", middlewares.RequireAuth(), middlewares.RequireEmployee())
	{
		employee.GET("/delivery", controllers.GetDeliveries)
		employee.GET("/delivery/:id", controllers.GetDelivery)
		employee.PATCH("/delivery/:id/status", controllers.UpdateDeliveryStatus)
		employee.POST("/delivery/:id/deliver", controllers.MarkDeliveryDelivered)
		employee.GET("/deliveries/late", controllers.GetLateDeliveries)
		employee.GET("/deliveries/today", controllers.GetTodayDeliveries)
		employee.GET("/deliveries/plan", controllers.PlanDeliveries)
		employee.GET("/deliveries/employee/:employeeId", controllers.GetEmployeeDeliveries)
	}

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.PUT("/delivery/:id", controllers.UpdateDelivery)
		admin.DELETE("/delivery/:id", controllers.DeleteDelivery)
		admin.POST("/delivery/:id/assign", controllers.AssignDeliveryEmployee)
		admin.GET("/deliveries/stats", controllers.GetDeliveryStats)
	}
}
