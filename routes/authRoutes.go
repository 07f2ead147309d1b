package routes

import (
	"github.com/Nii-Armah/adomi-api/controllers"
	"github.com/Nii-Armah/adomi-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/google", controllers.GoogleLogin)
		auth.POST("/verify-email/:activationToken", controllers.ActivateAccount)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", controllers.ResetPassword)
		auth.GET("/user-info", middlewares.RequireAuth(), controllers.GetUserInfo)
	}

	profile := server.Group("/api/profile", middlewares.RequireAuth())
	{
		profile.GET("", controllers.GetProfile)
		profile.POST("", controllers.UpdateProfile)
		profile.GET("/address", controllers.GetSavedAddress)
		profile.POST("/address", controllers.CreateOrUpdateAddress)
		profile.POST("/photo", controllers.UploadProfilePhoto)
	}
}
