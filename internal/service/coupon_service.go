package service

import (
	"time"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService coupon validation at order intake
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService creates the coupon validation service
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// CouponQuote the outcome of validating a coupon against a cart
type CouponQuote struct {
	Coupon   *models.Coupon
	Discount decimal.Decimal
}

// Validate checks a coupon against the cart subtotal and product set and
// computes the discount it grants. productIDs is the set of products in
// the cart.
func (s *CouponService) Validate(code string, subtotal decimal.Decimal, productIDs []uint) (*CouponQuote, error) {
	coupon, err := s.couponRepo.GetByCode(normalizeCouponCode(code))
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, ErrCouponInactive
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return nil, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, ErrCouponUsageLimit
	}
	if subtotal.LessThan(coupon.MinPurchaseAmount.Decimal) {
		return nil, ErrCouponMinAmount
	}
	if len(coupon.Products) > 0 && !couponCoversAny(coupon, productIDs) {
		return nil, ErrCouponNotApplicable
	}

	return &CouponQuote{
		Coupon:   coupon,
		Discount: couponDiscount(coupon, subtotal),
	}, nil
}

// Redeem bumps the coupon's usage counter inside the caller's
// transaction
func (s *CouponService) Redeem(tx *gorm.DB, couponID uint) error {
	return s.couponRepo.IncrementUsedCount(tx, couponID)
}

func couponCoversAny(coupon *models.Coupon, productIDs []uint) bool {
	scoped := make(map[uint]bool, len(coupon.Products))
	for _, cp := range coupon.Products {
		scoped[cp.ProductID] = true
	}
	for _, id := range productIDs {
		if scoped[id] {
			return true
		}
	}
	return false
}

// couponDiscount computes the discount a coupon grants on a subtotal,
// honoring the max discount cap and never exceeding the subtotal.
func couponDiscount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.DiscountTypeFixed:
		discount = coupon.DiscountValue.Decimal
	default:
		discount = subtotal.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
	}
	limit := coupon.MaxDiscountAmount.Decimal
	if limit.IsPositive() && discount.GreaterThan(limit) {
		discount = limit
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount.Round(2)
}
