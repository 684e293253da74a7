package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount coupon
type Coupon struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	Code              string         `gorm:"uniqueIndex;not null" json:"code"`
	Description       string         `gorm:"type:text" json:"description"`
	DiscountType      string         `gorm:"not null" json:"discount_type"`
	DiscountValue     Money          `gorm:"type:decimal(20,2);not null" json:"discount_value"`
	MinPurchaseAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_purchase_amount"`
	MaxDiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount_amount"`
	UsageLimit        int            `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount         int            `gorm:"not null;default:0" json:"used_count"`
	StartsAt          *time.Time     `gorm:"index" json:"starts_at"`
	EndsAt            *time.Time     `gorm:"index" json:"ends_at"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Products []CouponProduct `gorm:"foreignKey:CouponID" json:"products,omitempty"`
}

// TableName table name
func (Coupon) TableName() string {
	return "coupons"
}

// CouponProduct scopes a coupon to a product; a coupon with no rows
// applies store-wide
type CouponProduct struct {
	ID        uint `gorm:"primarykey" json:"id"`
	CouponID  uint `gorm:"index:idx_coupon_product,unique;not null" json:"coupon_id"`
	ProductID uint `gorm:"index:idx_coupon_product,unique;not null" json:"product_id"`
}

// TableName table name
func (CouponProduct) TableName() string {
	return "coupon_products"
}
