package models

import (
	"time"

	"gorm.io/gorm"
)

// ComboOffer bundle of products sold at a discount
type ComboOffer struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	ImageURL1     string         `gorm:"type:varchar(500)" json:"image_url_1"`
	ImageURL2     string         `gorm:"type:varchar(500)" json:"image_url_2"`
	ImageURL3     string         `gorm:"type:varchar(500)" json:"image_url_3"`
	ImageURL4     string         `gorm:"type:varchar(500)" json:"image_url_4"`
	DiscountType  string         `gorm:"not null" json:"discount_type"`
	DiscountValue Money          `gorm:"type:decimal(20,2);not null" json:"discount_value"`
	StartsAt      *time.Time     `gorm:"index" json:"starts_at"`
	EndsAt        *time.Time     `gorm:"index" json:"ends_at"`
	IsActive      bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Items []ComboOfferItem `gorm:"foreignKey:ComboOfferID" json:"items,omitempty"`
}

// TableName table name
func (ComboOffer) TableName() string {
	return "combo_offers"
}

// ComboOfferItem product line inside a combo
type ComboOfferItem struct {
	ID           uint `gorm:"primarykey" json:"id"`
	ComboOfferID uint `gorm:"index;not null" json:"combo_offer_id"`
	ProductID    uint `gorm:"index;not null" json:"product_id"`
	Quantity     int  `gorm:"not null;default:1" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName table name
func (ComboOfferItem) TableName() string {
	return "combo_offer_items"
}
