package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Nii-Armah/adomi-api/initializers"
	"github.com/Nii-Armah/adomi-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type orderItemDto struct {
	ProductId  int    `json:"productId"`
	Name       string `json:"name"`
	PictureUrl string `json:"pictureUrl"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

type orderDetailsDto struct {
	Id          uint           `json:"id"`
	BuyerEmail  string         `json:"buyerEmail"`
	OrderDate   time.Time      `json:"orderDate"`
	Hostel      string         `json:"hostel"`
	Landmark    string         `json:"landmark"`
	City        string         `json:"city"`
	Region      string         `json:"region"`
	Contact     string         `json:"contact"`
	Subtotal    int64          `json:"subtotal"`
	DeliveryFee int64          `json:"deliveryFee"`
	Total       int64          `json:"total"`
	Reference   string         `json:"reference"`
	Status      string         `json:"status"`
	Items       []orderItemDto `json:"items"`
}

func toOrderDetailsDto(order *models.Order) orderDetailsDto {
	items := make([]orderItemDto, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, orderItemDto{
			ProductId:  item.ProductId,
			Name:       item.Name,
			PictureUrl: item.PictureUrl,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return orderDetailsDto{
		Id:          order.ID,
		BuyerEmail:  order.BuyerEmail,
		OrderDate:   order.OrderDate,
		Hostel:      order.ShippingAddress.Hostel,
		Landmark:    order.ShippingAddress.Landmark,
		City:        order.ShippingAddress.City,
		Region:      order.ShippingAddress.Region,
		Contact:     order.ShippingAddress.Contact,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Total:       order.Total(),
		Reference:   order.Reference,
		Status:      order.Status,
		Items:       items,
	}
}

// GetOrderById returns the order projection. Only the buyer may read it.
func GetOrderById(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	result := initializers.DB.Preload("OrderItems").First(&order, orderId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	if order.BuyerEmail != email {
		sendErrorResponse(ctx, http.StatusForbidden, "You are not allowed to view this order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": toOrderDetailsDto(&order)})
}

// GetMyOrders lists the caller's order history, newest first.
func GetMyOrders(ctx *gin.Context) {
	email, ok := currentUserEmail(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orders []models.Order
	result := initializers.DB.Preload("OrderItems").
		Where("buyer_email = ?", email).
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders.")
		return
	}

	dtos := make([]orderDetailsDto, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toOrderDetailsDto(&orders[i]))
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": dtos})
}

// GetOrderStatusByReference is the poll endpoint the client hits while
// waiting for the webhook to confirm payment.
func GetOrderStatusByReference(ctx *gin.Context) {
	reference := ctx.Param("reference")
	if reference == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing reference")
		return
	}

	var order models.Order
	result := initializers.DB.Where("reference = ? AND reference != ''", reference).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"reference": order.Reference,
		"status":    order.Status,
	})
}

// GetOrders is the paginated admin listing.
func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")
	if search := ctx.Query("search"); search != "" {
		query = query.Where("buyer_email LIKE ? OR reference LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	result := query.Order("created_at " + sortOrder).Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("buyer_email LIKE ? OR reference LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	countQuery.Count(&count)

	var unpaid int64
	initializers.DB.Model(&models.Order{}).Where("status != ?", models.OrderStatusPaid).Count(&unpaid)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"unpaid":       unpaid,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

// UpdateOrderStatus lets an admin adjust fulfilment status. Paid orders
// cannot be moved back to Pending.
func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	if err := initializers.DB.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	if order.Status == models.OrderStatusPaid && orderStatusData.Status == models.OrderStatusPending {
		sendErrorResponse(ctx, http.StatusConflict, "Paid orders cannot revert to Pending")
		return
	}

	if err := initializers.DB.Model(&order).Update("status", orderStatusData.Status).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully."})
}

func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	if result := initializers.DB.Delete(&models.Order{}, orderId); result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}
