package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global DB at a fresh in-memory SQLite database.
// cache=shared keeps every pooled connection on the same database.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecs{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	initializers.DB = db
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func seedProduct(t *testing.T, id int, name string, price int64) models.Product {
	t.Helper()
	product := models.Product{
		Brand:       "TestBrand",
		Name:        name,
		Description: "test product",
		Price:       price,
		Category:    "test",
		PictureUrl:  "/images/test.png",
	}
	product.ID = uint(id)
	require.NoError(t, initializers.DB.Create(&product).Error)
	return product
}

func seedCart(t *testing.T, cartId string) models.Cart {
	t.Helper()
	cart := models.Cart{CartId: cartId}
	require.NoError(t, initializers.DB.Create(&cart).Error)
	return cart
}

func seedCartItem(t *testing.T, cart *models.Cart, productId int, name string, price int64, quantity int) models.CartItem {
	t.Helper()
	item := models.CartItem{
		CartID:    int(cart.ID),
		ProductId: productId,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
	}
	require.NoError(t, initializers.DB.Create(&item).Error)
	cart.Items = append(cart.Items, item)
	return item
}

func withCartCookie(req *http.Request, cartId string) {
	req.AddCookie(&http.Cookie{Name: cartCookieName, Value: cartId})
}

func authHeaderFor(t *testing.T, email, role string) string {
	t.Helper()
	user := models.User{Email: email, Username: email, Role: role}
	token, err := generateJWT(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}
