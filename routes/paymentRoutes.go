package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ndiayedev/jokkoshop-api/controllers"
	"github.com/ndiayedev/jokkoshop-api/middlewares"
)

func PaymentRoutes(server *gin.Engine) {
	authed := server.Group("/payment", middlewares.RequireAuth())
	{
		authed.GET("/order/:orderId", controllers.GetOrderPayment)
	}

	employee := server.Group("/payment", middlewares.RequireAuth(), middlewares.RequireEmployee())
	{
		employee.POST("/:id/paid", controllers.MarkPaymentPaid)
		employee.GET("/today", controllers.GetTodayPayments)
	}

	admin := server.Group("/payment", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetPayments)
		admin.POST("/:id/refund", controllers.RefundPayment)
		admin.POST("/:id/cancel", controllers.CancelPayment)
	}
}
