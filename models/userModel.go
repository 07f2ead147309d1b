package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Username        string           `json:"username"`
	Email           string           `json:"email" gorm:"uniqueIndex;size:255"`
	Phone           string           `json:"phone"`
	Password        string           `json:"-"`
	Role            string           `json:"role"`
	Activated       bool             `json:"activated"`
	ActivationToken string           `json:"-"`
	ResetToken      string           `json:"-"`
	DateOfBirth     *time.Time       `json:"dateOfBirth"`
	PhotoUrl        string           `json:"photoUrl"`
	Address         *ShippingAddress `json:"address" gorm:"embedded;embeddedPrefix:addr_"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
