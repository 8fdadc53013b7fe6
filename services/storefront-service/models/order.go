package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusAwaitingShipment OrderStatus = "awaiting_shipment"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusFulfilled        OrderStatus = "fulfilled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusAwaitingShipment, OrderStatusShipped, OrderStatusFulfilled:
		return true
	}
	return false
}

type Order struct {
	ID                string           `gorm:"type:varchar(64);primaryKey" json:"id"`
	ConfigurationID   string           `gorm:"type:varchar(64);index;not null" json:"configuration_id"`
	UserID            string           `gorm:"type:varchar(64);index;not null" json:"user_id"`
	User              *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount            int64            `gorm:"not null" json:"amount"` // in cents
	IsPaid            bool             `gorm:"not null" json:"is_paid"`
	Status            OrderStatus      `gorm:"type:varchar(32);not null" json:"status"`
	ShippingAddressID *string          `gorm:"type:varchar(64)" json:"shipping_address_id,omitempty"`
	ShippingAddress   *ShippingAddress `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	BillingAddressID  *string          `gorm:"type:varchar(64)" json:"billing_address_id,omitempty"`
	BillingAddress    *BillingAddress  `gorm:"foreignKey:BillingAddressID" json:"billing_address,omitempty"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusAwaitingShipment
	}
	return nil
}

type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
