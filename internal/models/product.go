package models

import (
	"time"

	"gorm.io/gorm"
)

// Product catalog product
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	MRP         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"mrp"`
	SKU         string         `gorm:"type:varchar(100);index" json:"sku"`
	Images      StringArray    `gorm:"type:json" json:"images"`
	ProductType string         `gorm:"type:varchar(50);index" json:"product_type"`
	SkinType    string         `gorm:"type:varchar(50)" json:"skin_type"`
	Concerns    StringArray    `gorm:"type:json" json:"concerns"`
	Ingredients string         `gorm:"type:text" json:"ingredients"`
	HowToUse    string         `gorm:"type:text" json:"how_to_use"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	// Rating aggregates maintained from reviews
	RatingAvg   float64        `gorm:"not null;default:0" json:"rating_avg"`
	RatingCount int            `gorm:"not null;default:0" json:"rating_count"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	IsFeatured  bool           `gorm:"default:false;index" json:"is_featured"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName table name
func (Product) TableName() string {
	return "products"
}
