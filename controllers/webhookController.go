package controllers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const paystackSignatureHeader = "x-paystack-signature"

const eventChargeSuccess = "charge.success"

// paystackEvent is the typed envelope for the webhook payloads we accept.
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

func computeHmacSHA512(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature compares the header against the HMAC of the exact raw
// body bytes. Hex comparison is case-insensitive and constant-time.
func verifySignature(secret string, body []byte, signature string) bool {
	computed := computeHmacSHA512(secret, body)
	return hmac.Equal([]byte(computed), []byte(strings.ToLower(signature)))
}

// markOrderPaid applies the one-way Pending -> Paid transition and drains
// the buyer's cart in the same transaction. Replays find the terminal
// status already set and rewrite the same value.
func markOrderPaid(order *models.Order, rawEvent []byte) error {
	now := time.Now().UTC()
	return initializers.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":          models.OrderStatusPaid,
			"gateway_payload": datatypes.JSON(rawEvent),
		}
		if order.PaidAt == nil {
			updates["paid_at"] = now
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		if order.CartId == "" {
			return nil
		}
		var cart models.Cart
		if err := tx.Where("cart_id = ?", order.CartId).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
}

// HandlePaystackWebhook is the asynchronous payment confirmation channel.
// It is at-least-once: the gateway may deliver the same event repeatedly.
func HandlePaystackWebhook(ctx *gin.Context) {
	secretKey := os.Getenv("PAYSTACK_SECRET_KEY")
	if secretKey == "" {
		initializers.Log.Error().Msg("paystack secret key is missing from configuration")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Paystack secret key not configured.")
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if !verifySignature(secretKey, body, ctx.GetHeader(paystackSignatureHeader)) {
		initializers.Log.Warn().Msg("invalid paystack signature")
		ctx.Status(http.StatusUnauthorized)
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		initializers.Log.Error().Err(err).Msg("failed to parse paystack webhook body")
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid JSON format.")
		return
	}
	if event.Event == "" || event.Data.Reference == "" {
		initializers.Log.Warn().Msg("missing expected properties in webhook payload")
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing data.")
		return
	}

	if event.Event != eventChargeSuccess {
		ctx.Status(http.StatusOK)
		return
	}

	logger := initializers.Log.With().Str("reference", event.Data.Reference).Logger()
	logger.Info().Msg("payment successful")

	var order models.Order
	result := initializers.DB.Where("reference = ? AND reference != ''", event.Data.Reference).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			// Not an error to the gateway, a retry would not help.
			logger.Warn().Msg("no order found for reference")
			ctx.Status(http.StatusOK)
			return
		}
		logger.Error().Err(result.Error).Msg("failed to look up order")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	// A confirmation whose amount disagrees with the order is ignored, it
	// must not mark the order paid.
	if event.Data.Amount > 0 && event.Data.Amount != order.Total() {
		logger.Warn().Int64("event_amount", event.Data.Amount).Int64("order_total", order.Total()).
			Msg("webhook amount does not match order total, ignoring")
		ctx.Status(http.StatusOK)
		return
	}

	if err := markOrderPaid(&order, body); err != nil {
		logger.Error().Err(err).Msg("failed to mark order as paid")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	logger.Info().Uint("order_id", order.ID).Msg("order marked as paid")
	ctx.Status(http.StatusOK)
}
