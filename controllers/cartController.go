package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	cartCookieName   = "cartId"
	cartCookieMaxAge = 30 * 24 * 60 * 60

	defaultDeliveryFee   = 500
	defaultFreeThreshold = 10000
)

// deliveryFeeFor returns the flat delivery fee in pesewas, waived at or
// above the free-delivery threshold.
func deliveryFeeFor(subtotal int64) int64 {
	fee := int64(defaultDeliveryFee)
	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			fee = parsed
		}
	}
	threshold := int64(defaultFreeThreshold)
	if v := os.Getenv("FREE_DELIVERY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			threshold = parsed
		}
	}
	if subtotal >= threshold {
		return 0
	}
	return fee
}

func cartResponse(cart *models.Cart) gin.H {
	subtotal := cart.Subtotal()
	deliveryFee := deliveryFeeFor(subtotal)
	return gin.H{
		"cartId":      cart.CartId,
		"items":       cart.Items,
		"subtotal":    subtotal,
		"deliveryFee": deliveryFee,
		"total":       subtotal + deliveryFee,
	}
}

// getOrCreateCart resolves the caller's cart from the cartId cookie,
// creating both the cart and the cookie on first contact.
func getOrCreateCart(ctx *gin.Context) (*models.Cart, error) {
	cartId, err := ctx.Cookie(cartCookieName)
	if err == nil && cartId != "" {
		var cart models.Cart
		result := initializers.DB.Where("cart_id = ?", cartId).Preload("Items").First(&cart)
		if result.Error == nil {
			return &cart, nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
	}

	cart := models.Cart{CartId: uuid.NewString()}
	if result := initializers.DB.Create(&cart); result.Error != nil {
		return nil, result.Error
	}
	ctx.SetCookie(cartCookieName, cart.CartId, cartCookieMaxAge, "/", "", false, true)
	return &cart, nil
}

func GetCart(ctx *gin.Context) {
	cart, err := getOrCreateCart(ctx)
	if err != nil {
		initializers.Log.Error().Err(err).Msg("failed to fetch cart")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartResponse(cart))
}

// AddCartItem merges quantity into an existing line or snapshots a new one
// from the product.
func AddCartItem(ctx *gin.Context) {
	var input struct {
		ProductId int `json:"productId" binding:"required"`
		Quantity  int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Quantity <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Quantity should be greater than zero")
		return
	}

	cart, err := getOrCreateCart(ctx)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	if existing := cart.FindItem(input.ProductId); existing != nil {
		existing.Quantity += input.Quantity
		if err := initializers.DB.Save(existing).Error; err != nil {
			initializers.Log.Error().Err(err).Msg("failed to update cart item")
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.")
			return
		}
		sendJSONResponse(ctx, http.StatusOK, cartResponse(cart))
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, input.ProductId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	item := models.CartItem{
		CartID:     int(cart.ID),
		ProductId:  input.ProductId,
		Name:       product.Name,
		Price:      product.Price,
		Quantity:   input.Quantity,
		PictureUrl: product.PictureUrl,
	}
	if err := initializers.DB.Create(&item).Error; err != nil {
		initializers.Log.Error().Err(err).Msg("failed to create cart item")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	cart.Items = append(cart.Items, item)
	sendJSONResponse(ctx, http.StatusCreated, cartResponse(cart))
}

// RemoveCartItem decrements a line; reaching zero or below deletes it.
func RemoveCartItem(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Query("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse productId")
		return
	}
	quantity, err := strconv.Atoi(ctx.DefaultQuery("quantity", "1"))
	if err != nil || quantity <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Quantity should be greater than zero")
		return
	}

	cart, err := getOrCreateCart(ctx)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	item := cart.FindItem(productId)
	if item == nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Item not in cart")
		return
	}

	item.Quantity -= quantity
	if item.Quantity <= 0 {
		if err := initializers.DB.Unscoped().Delete(&models.CartItem{}, item.ID).Error; err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove cart item")
			return
		}
		remaining := cart.Items[:0]
		for _, it := range cart.Items {
			if it.ProductId != productId {
				remaining = append(remaining, it)
			}
		}
		cart.Items = remaining
	} else {
		if err := initializers.DB.Save(item).Error; err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update cart item")
			return
		}
	}

	sendJSONResponse(ctx, http.StatusOK, cartResponse(cart))
}
