package controllers

import (
	"encoding/json"
	"fmt"
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

func newCartRouter() *gin.Engine {
	router := newTestRouter()
	router.GET("/api/cart", GetCart)
	router.POST("/api/cart/items", AddCartItem)
	router.DELETE("/api/cart/items", RemoveCartItem)
	return router
}

type cartResponseBody struct {
	CartId      string            `json:"cartId"`
	Items       []models.CartItem `json:"items"`
	Subtotal    int64             `json:"subtotal"`
	DeliveryFee int64             `json:"deliveryFee"`
	Total       int64             `json:"total"`
}

func decodeCart(t *testing.T, recorder *httptest.ResponseRecorder) cartResponseBody {
	t.Helper()
	var body cartResponseBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestGetCartCreatesCartAndCookie(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	recorder := doRequest(router, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeCart(t, recorder)
	assert.NotEmpty(t, body.CartId)
	assert.Empty(t, body.Items)

	cookies := recorder.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == cartCookieName && cookie.Value == body.CartId {
			found = true
		}
	}
	assert.True(t, found, "cartId cookie should be set")
}

func TestAddCartItemMergesQuantity(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	seedProduct(t, 5, "Speedster Board", 2000)
	cart := seedCart(t, "cart-merge")

	add := func(quantity int) *httptest.ResponseRecorder {
		payload := fmt.Sprintf(`{"productId":5,"quantity":%d}`, quantity)
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		withCartCookie(req, cart.CartId)
		return doRequest(router, req)
	}

	recorder := add(2)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = add(3)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeCart(t, recorder)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 5, body.Items[0].ProductId)
	assert.Equal(t, 5, body.Items[0].Quantity)
	assert.Equal(t, int64(10000), body.Subtotal)

	var count int64
	initializers.DB.Model(&models.CartItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddCartItemRejectsNonPositiveQuantity(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	seedProduct(t, 1, "Gloves", 1800)
	cart := seedCart(t, "cart-badqty")

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":1,"quantity":-2}`))
	req.Header.Set("Content-Type", "application/json")
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	cart := seedCart(t, "cart-noproduct")

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":99,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRemoveCartItemDecrements(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	cart := seedCart(t, "cart-decrement")
	seedCartItem(t, &cart, 5, "Speedster Board", 2000, 5)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/items?productId=5&quantity=2", nil)
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeCart(t, recorder)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 3, body.Items[0].Quantity)
}

func TestRemoveCartItemDeletesLineWhenExceedingQuantity(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	cart := seedCart(t, "cart-overremove")
	seedCartItem(t, &cart, 5, "Speedster Board", 2000, 5)

	// Removing more than is in the cart deletes the line, it never goes
	// negative.
	req := httptest.NewRequest(http.MethodDelete, "/api/cart/items?productId=5&quantity=10", nil)
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeCart(t, recorder)
	assert.Empty(t, body.Items)

	var count int64
	initializers.DB.Model(&models.CartItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRemoveCartItemNotInCart(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	cart := seedCart(t, "cart-missing-line")

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/items?productId=7&quantity=1", nil)
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCartTotalsAlwaysDerived(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	seedProduct(t, 1, "Gloves", 1800)
	cart := seedCart(t, "cart-totals")

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":1,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeCart(t, recorder)
	assert.Equal(t, int64(3600), body.Subtotal)
	assert.Equal(t, int64(defaultDeliveryFee), body.DeliveryFee)
	assert.Equal(t, body.Subtotal+body.DeliveryFee, body.Total)
}

func TestCartDeliveryFeeWaivedAboveThreshold(t *testing.T) {
	setupTestDB(t)
	router := newCartRouter()

	seedProduct(t, 2, "Speedster Board", 20000)
	cart := seedCart(t, "cart-free-delivery")

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":2,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	withCartCookie(req, cart.CartId)
	recorder := doRequest(router, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeCart(t, recorder)
	assert.Equal(t, int64(0), body.DeliveryFee)
	assert.Equal(t, body.Subtotal, body.Total)
}
