package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Configuration is a user's phone-case design: the uploaded image and the
// selected case options.
type Configuration struct {
	ID              string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Width           int       `gorm:"not null" json:"width"`
	Height          int       `gorm:"not null" json:"height"`
	ImageURL        string    `gorm:"type:varchar(1024);not null" json:"image_url"`
	CroppedImageURL *string   `gorm:"type:varchar(1024)" json:"cropped_image_url,omitempty"`
	Color           *string   `gorm:"type:varchar(32)" json:"color,omitempty"`
	Model           *string   `gorm:"type:varchar(32)" json:"model,omitempty"`
	Material        *string   `gorm:"type:varchar(32)" json:"material,omitempty"`
	Finish          *string   `gorm:"type:varchar(32)" json:"finish,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Configuration) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
