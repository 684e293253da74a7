package repository

import "time"

// ProductListFilter product list query filter
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   string
	Search       string
	ProductType  string
	SkinType     string
	OnlyActive   bool
	OnlyFeatured bool
	WithCategory bool
}

// OrderListFilter order list query filter
type OrderListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	Status         string
	ShipmentStatus string
	OrderNo        string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// CouponListFilter coupon list query filter
type CouponListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// ComboListFilter combo offer list query filter
type ComboListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
	OnlyLive   bool
}

// ReviewListFilter review list query filter
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
	Approved  *bool
}

// UserListFilter user list query filter
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// WebhookEventListFilter webhook dead-letter list query filter
type WebhookEventListFilter struct {
	Page      int
	PageSize  int
	AWBNumber string
	Status    string
}
