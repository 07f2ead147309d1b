package routes

import (
	"github.com/Nii-Armah/adomi-api/controllers"
	"github.com/gin-gonic/gin"
)

func PaymentRoutes(server *gin.Engine) {
	server.POST("/api/payment/mobile-money", controllers.InitiateMobileMoneyPayment)

	// Called by the gateway, authenticated by signature only.
	server.POST("/api/paystackwebhook", controllers.HandlePaystackWebhook)
}
