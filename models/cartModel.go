package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	CartID     int    `json:"-"`
	ProductId  int    `json:"productId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	PictureUrl string `json:"pictureUrl"`
}

type Cart struct {
	gorm.Model
	CartId string     `json:"cartId" gorm:"uniqueIndex;size:64"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// Subtotal is the sum of line prices in pesewas.
func (c *Cart) Subtotal() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

func (c *Cart) FindItem(productId int) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductId == productId {
			return &c.Items[i]
		}
	}
	return nil
}
