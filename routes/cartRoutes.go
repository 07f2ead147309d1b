package routes

import (
	"github.com/Nii-Armah/adomi-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	server.GET("/api/cart", controllers.GetCart)
	server.POST("/api/cart/items", controllers.AddCartItem)
	server.DELETE("/api/cart/items", controllers.RemoveCartItem)
}
