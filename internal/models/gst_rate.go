package models

import (
	"time"

	"gorm.io/gorm"
)

// GSTRate store-wide GST rate; at most one rate is active at a time
type GSTRate struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Percentage  float64        `gorm:"not null" json:"percentage"`
	IsActive    bool           `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name
func (GSTRate) TableName() string {
	return "gst_rates"
}

// ProductGSTRate per-product GST override; wins over the active store rate
type ProductGSTRate struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"uniqueIndex;not null" json:"product_id"`
	Percentage float64        `gorm:"not null" json:"percentage"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name
func (ProductGSTRate) TableName() string {
	return "product_gst_rates"
}
