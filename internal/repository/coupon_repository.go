package repository

import (
	"errors"

	"github.com/glowmart/glowmart-api/internal/models"

	"gorm.io/gorm"
)

// CouponRepository coupon data access
type CouponRepository interface {
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	CountByCode(code string, excludeID *uint) (int64, error)
	ReplaceProducts(couponID uint, productIDs []uint) error
	IncrementUsedCount(tx *gorm.DB, id uint) error
}

// GormCouponRepository GORM implementation
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates the coupon repository
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// List coupon list
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})

	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		cond, argCount := buildLikeCondition(r.db, []string{"code", "description"})
		if argCount > 0 {
			like := "%" + filter.Search + "%"
			query = query.Where(cond, repeatLikeArgs(like, argCount)...)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Products").Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// GetByID fetches a coupon by ID
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Preload("Products").First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode fetches a coupon by code
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Preload("Products").Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create creates a coupon
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update updates a coupon
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete removes a coupon and its product scoping
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("coupon_id = ?", id).Delete(&models.CouponProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Coupon{}, id).Error
	})
}

// CountByCode counts coupons with the code
func (r *GormCouponRepository) CountByCode(code string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Coupon{}).Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceProducts rewrites the coupon's product scoping rows
func (r *GormCouponRepository) ReplaceProducts(couponID uint, productIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("coupon_id = ?", couponID).Delete(&models.CouponProduct{}).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		rows := make([]models.CouponProduct, 0, len(productIDs))
		for _, productID := range productIDs {
			rows = append(rows, models.CouponProduct{CouponID: couponID, ProductID: productID})
		}
		return tx.Create(&rows).Error
	})
}

// IncrementUsedCount bumps the used counter, inside tx when given
func (r *GormCouponRepository) IncrementUsedCount(tx *gorm.DB, id uint) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Model(&models.Coupon{}).Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}
