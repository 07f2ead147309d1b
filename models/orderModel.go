package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPending = "Pending"
	OrderStatusPaid    = "Paid"
)

// ShippingAddress is a value object embedded in orders and user profiles.
type ShippingAddress struct {
	Hostel   string `json:"hostel"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Contact  string `json:"contact"`
}

type Order struct {
	gorm.Model
	BuyerEmail      string          `json:"buyerEmail" gorm:"index"`
	OrderDate       time.Time       `json:"orderDate"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	Subtotal        int64           `json:"subtotal"`
	DeliveryFee     int64           `json:"deliveryFee"`
	Reference       string          `json:"reference" gorm:"index;size:128"`
	Status          string          `json:"status"`
	IdempotencyKey  string          `json:"-" gorm:"uniqueIndex;size:64"`
	CartId          string          `json:"-" gorm:"size:64"`
	PaidAt          *time.Time      `json:"paidAt"`
	GatewayPayload  datatypes.JSON  `json:"-"`
	OrderItems      []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	gorm.Model
	OrderID    int    `json:"orderId"`
	ProductId  int    `json:"productId"`
	Name       string `json:"name"`
	PictureUrl string `json:"pictureUrl"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// Total is always derived, never stored.
func (o *Order) Total() int64 {
	return o.Subtotal + o.DeliveryFee
}
