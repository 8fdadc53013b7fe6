package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address holds the columns shared by shipping and billing addresses.
type Address struct {
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	Street     string  `gorm:"type:varchar(255);not null" json:"street"`
	City       string  `gorm:"type:varchar(128);not null" json:"city"`
	State      *string `gorm:"type:varchar(128)" json:"state,omitempty"`
	PostalCode string  `gorm:"type:varchar(32);not null" json:"postal_code"`
	Country    string  `gorm:"type:varchar(64);not null" json:"country"`
	Phone      *string `gorm:"type:varchar(64)" json:"phone,omitempty"`
}

type ShippingAddress struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Address
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *ShippingAddress) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type BillingAddress struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Address
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *BillingAddress) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
