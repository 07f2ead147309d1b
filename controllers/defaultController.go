package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to Adomi Store API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/google" - Login with Google
- POST "/auth/verify-email/:activationToken" - Activate user account
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password

PRODUCT
- POST "/product" - Create new product
- GET "/product" - Get all products
- POST "/product-specs" - Add product specifications
- POST "/product-images" - Add product images
- GET "/product/:id" - Get product by ID

CART
- GET "/api/cart" - Get (or create) the anonymous cart
- POST "/api/cart/items" - Add an item to the cart
- DELETE "/api/cart/items" - Remove quantity from a cart line

PAYMENT
- POST "/api/payment/mobile-money" - Initiate a mobile money charge
- POST "/api/paystackwebhook" - Paystack confirmation webhook

ORDER
- GET "/api/orders" - Get the caller's order history
- GET "/api/orders/:id" - Get order by ID
- GET "/api/orders/status/:reference" - Poll order status by reference`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
