package routes

import (
	"github.com/Nii-Armah/adomi-api/controllers"
	"github.com/Nii-Armah/adomi-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/product", controllers.CreateProduct)
		admin.POST("/product-specs", controllers.CreateProductSpecs)
		admin.POST("/product-images", controllers.UploadProductImages)
	}
}
