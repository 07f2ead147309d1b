package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentRouter() *gin.Engine {
	router := newTestRouter()
	router.POST("/api/payment/mobile-money", InitiateMobileMoneyPayment)
	return router
}

// fakeGateway captures charge requests and answers with a fixed reference.
func fakeGateway(t *testing.T, reference string, status int) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var received []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/charge", r.URL.Path)
		require.Equal(t, "Bearer sk_test_payment_secret", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		received = append(received, payload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"status":true,"message":"Charge attempted","data":{"reference":"` + reference + `","status":"pay_offline"}}`))
		} else {
			w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &received
}

const validCheckoutBody = `{
	"email": "buyer@test.com",
	"phone": "0551234567",
	"provider": "mtn",
	"amount": 4500,
	"shippingAddress": {
		"hostel": "Unity Hall",
		"landmark": "Near the library",
		"city": "Kumasi",
		"region": "Ashanti",
		"contact": "0551234567"
	}
}`

func postCheckout(router *gin.Engine, cartId, idempotencyKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/mobile-money", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cartId != "" {
		withCartCookie(req, cartId)
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyKeyHeader, idempotencyKey)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestInitiatePaymentCreatesPendingOrder(t *testing.T) {
	setupTestDB(t)
	gateway, received := fakeGateway(t, "ref_123", http.StatusOK)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_payment_secret")
	t.Setenv("PAYSTACK_BASE_URL", gateway.URL)
	router := newPaymentRouter()

	cart := seedCart(t, "cart-checkout")
	seedCartItem(t, &cart, 5, "Speedster Board", 2000, 2)

	recorder := postCheckout(router, cart.CartId, "", validCheckoutBody)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The gateway body is forwarded verbatim.
	var gatewayResp map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &gatewayResp))
	assert.Equal(t, true, gatewayResp["status"])

	var order models.Order
	require.NoError(t, initializers.DB.Preload("OrderItems").Where("reference = ?", "ref_123").First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "buyer@test.com", order.BuyerEmail)
	assert.Equal(t, int64(4000), order.Subtotal)
	assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total())
	assert.Equal(t, "Kumasi", order.ShippingAddress.City)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 5, order.OrderItems[0].ProductId)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)

	// Charge payload carries the mobile money channel and currency.
	require.Len(t, *received, 1)
	charge := (*received)[0]
	assert.Equal(t, "GHS", charge["currency"])
	mobileMoney := charge["mobile_money"].(map[string]any)
	assert.Equal(t, "mtn", mobileMoney["provider"])
	assert.Equal(t, "0551234567", mobileMoney["phone"])
}

func TestInitiatePaymentIdempotencyKeyPreventsDuplicateOrders(t *testing.T) {
	setupTestDB(t)
	gateway, received := fakeGateway(t, "ref_123", http.StatusOK)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_payment_secret")
	t.Setenv("PAYSTACK_BASE_URL", gateway.URL)
	router := newPaymentRouter()

	cart := seedCart(t, "cart-idem")
	seedCartItem(t, &cart, 5, "Speedster Board", 2000, 1)

	first := postCheckout(router, cart.CartId, "checkout-key-1", validCheckoutBody)
	require.Equal(t, http.StatusOK, first.Code)

	second := postCheckout(router, cart.CartId, "checkout-key-1", validCheckoutBody)
	require.Equal(t, http.StatusOK, second.Code)

	var count int64
	initializers.DB.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count, "replayed initiation must not create a second order")
	assert.Len(t, *received, 1, "replayed initiation must not charge again")
}

func TestInitiatePaymentGatewayErrorForwarded(t *testing.T) {
	setupTestDB(t)
	gateway, _ := fakeGateway(t, "", http.StatusUnauthorized)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_payment_secret")
	t.Setenv("PAYSTACK_BASE_URL", gateway.URL)
	router := newPaymentRouter()

	cart := seedCart(t, "cart-gwfail")
	seedCartItem(t, &cart, 5, "Speedster Board", 2000, 1)

	recorder := postCheckout(router, cart.CartId, "", validCheckoutBody)

	// The gateway's error body and status pass through unclassified.
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid key")

	// The pending order stays behind without a reference.
	var order models.Order
	require.NoError(t, initializers.DB.First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Empty(t, order.Reference)
}

func TestInitiatePaymentValidation(t *testing.T) {
	setupTestDB(t)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_payment_secret")
	router := newPaymentRouter()

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"phone":"055","provider":"mtn","amount":100,"shippingAddress":{"hostel":"a","city":"b","region":"c","contact":"d"}}`},
		{"missing phone", `{"email":"a@b.com","provider":"mtn","amount":100,"shippingAddress":{"hostel":"a","city":"b","region":"c","contact":"d"}}`},
		{"negative amount", `{"email":"a@b.com","phone":"055","provider":"mtn","amount":-5,"shippingAddress":{"hostel":"a","city":"b","region":"c","contact":"d"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := postCheckout(router, "", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestInitiatePaymentEmptyCart(t *testing.T) {
	setupTestDB(t)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_payment_secret")
	router := newPaymentRouter()

	cart := seedCart(t, "cart-empty")
	recorder := postCheckout(router, cart.CartId, "", validCheckoutBody)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
