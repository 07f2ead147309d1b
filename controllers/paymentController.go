package controllers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const idempotencyKeyHeader = "X-Idempotency-Key"

type mobileMoneyRequest struct {
	Email           string                 `json:"email" binding:"required,email"`
	Phone           string                 `json:"phone" binding:"required"`
	Provider        string                 `json:"provider" binding:"required"`
	Amount          int64                  `json:"amount" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
}

func paystackBaseURL() string {
	if base := os.Getenv("PAYSTACK_BASE_URL"); base != "" {
		return base
	}
	return "https://api.paystack.co"
}

// createPendingOrder snapshots the cart into a Pending order inside one
// transaction. The idempotency key makes a replayed initiation call land
// on the same order row.
func createPendingOrder(req mobileMoneyRequest, cart *models.Cart, idempotencyKey string) (*models.Order, error) {
	subtotal := cart.Subtotal()
	order := models.Order{
		BuyerEmail:      req.Email,
		OrderDate:       time.Now().UTC(),
		ShippingAddress: req.ShippingAddress,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFeeFor(subtotal),
		Status:          models.OrderStatusPending,
		IdempotencyKey:  idempotencyKey,
		CartId:          cart.CartId,
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range cart.Items {
			orderItem := models.OrderItem{
				OrderID:    int(order.ID),
				ProductId:  item.ProductId,
				Name:       item.Name,
				PictureUrl: item.PictureUrl,
				Price:      item.Price,
				Quantity:   item.Quantity,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// InitiateMobileMoneyPayment charges the caller through Paystack's
// mobile-money channel and forwards the gateway response verbatim.
func InitiateMobileMoneyPayment(ctx *gin.Context) {
	var req mobileMoneyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}

	paystackSecret := os.Getenv("PAYSTACK_SECRET_KEY")
	if paystackSecret == "" {
		initializers.Log.Error().Msg("paystack secret key is not configured")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Missing payment configuration")
		return
	}

	cart, err := getOrCreateCart(ctx)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	if len(cart.Items) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
		return
	}

	idempotencyKey := ctx.GetHeader(idempotencyKeyHeader)
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	var order *models.Order
	var existing models.Order
	result := initializers.DB.Where("idempotency_key = ?", idempotencyKey).First(&existing)
	if result.Error == nil {
		if existing.Reference != "" {
			// Already charged under this key, do not charge again.
			sendJSONResponse(ctx, http.StatusOK, gin.H{
				"message":   "Payment already initiated for this checkout.",
				"orderId":   existing.ID,
				"reference": existing.Reference,
				"status":    existing.Status,
			})
			return
		}
		order = &existing
	} else {
		order, err = createPendingOrder(req, cart, idempotencyKey)
		if err != nil {
			initializers.Log.Error().Err(err).Msg("failed to create order")
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
			return
		}
	}

	payload := map[string]any{
		"amount":   req.Amount,
		"email":    req.Email,
		"currency": "GHS",
		"mobile_money": map[string]any{
			"phone":    req.Phone,
			"provider": req.Provider,
		},
		"metadata": map[string]any{
			"order_id": order.ID,
			"shipping_address": map[string]any{
				"hostel":   req.ShippingAddress.Hostel,
				"landmark": req.ShippingAddress.Landmark,
				"city":     req.ShippingAddress.City,
				"contact":  req.ShippingAddress.Contact,
				"region":   req.ShippingAddress.Region,
			},
		},
	}

	resp, err := resty.New().SetTimeout(30 * time.Second).
		R().
		SetHeaders(map[string]string{
			"Authorization": "Bearer " + paystackSecret,
			"Accept":        "application/json",
			"Content-Type":  "application/json",
		}).
		SetBody(payload).
		Post(paystackBaseURL() + "/charge")
	if err != nil {
		initializers.Log.Error().Err(err).Uint("order_id", order.ID).Msg("paystack charge request failed")
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to initiate payment")
		return
	}

	// Persist the gateway reference before responding so the webhook can
	// correlate even if the client goes away.
	var chargeResp struct {
		Data struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &chargeResp); err == nil && chargeResp.Data.Reference != "" {
		if err := initializers.DB.Model(order).Update("reference", chargeResp.Data.Reference).Error; err != nil {
			initializers.Log.Error().Err(err).Uint("order_id", order.ID).
				Str("reference", chargeResp.Data.Reference).Msg("order created, but reference not saved")
		}
	} else {
		initializers.Log.Warn().Int("status", resp.StatusCode()).Uint("order_id", order.ID).
			Msg("no reference in gateway response")
	}

	ctx.Data(resp.StatusCode(), "application/json", resp.Body())
}
