package routes

import (
	"github.com/Nii-Armah/adomi-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.GetHealth)
}
