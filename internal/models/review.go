package models

import (
	"time"

	"gorm.io/gorm"
)

// Review product review
type Review struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"index;not null" json:"product_id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Rating     int            `gorm:"not null" json:"rating"`
	Comment    string         `gorm:"type:text" json:"comment"`
	IsApproved bool           `gorm:"default:true;index" json:"is_approved"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName table name
func (Review) TableName() string {
	return "reviews"
}
