package routes

import (
	"github.com/Nii-Armah/adomi-api/controllers"
	"github.com/Nii-Armah/adomi-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	server.GET("/api/orders/status/:reference", controllers.GetOrderStatusByReference)

	orders := server.Group("/api/orders", middlewares.RequireAuth())
	{
		orders.GET("", controllers.GetMyOrders)
		orders.GET("/:id", controllers.GetOrderById)
	}

	admin := server.Group("/api/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetOrders)
		admin.PATCH("/:id", controllers.UpdateOrderStatus)
		admin.DELETE("/:id", controllers.DeleteOrder)
	}
}
