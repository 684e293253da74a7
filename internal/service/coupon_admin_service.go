package service

import (
	"strings"
	"time"

	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService coupon management
type CouponAdminService struct {
	couponRepo  repository.CouponRepository
	productRepo repository.ProductRepository
}

// NewCouponAdminService creates the coupon admin service
func NewCouponAdminService(couponRepo repository.CouponRepository, productRepo repository.ProductRepository) *CouponAdminService {
	return &CouponAdminService{couponRepo: couponRepo, productRepo: productRepo}
}

// CouponInput create/update payload. ProductIDs scopes the coupon; an
// empty list makes it store-wide.
type CouponInput struct {
	Code              string
	Description       string
	DiscountType      string
	DiscountValue     decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	MaxDiscountAmount decimal.Decimal
	UsageLimit        int
	StartsAt          *time.Time
	EndsAt            *time.Time
	IsActive          bool
	ProductIDs        []uint
}

// List lists coupons
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// Get fetches one coupon
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create creates a coupon; codes are stored uppercased
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	code := normalizeCouponCode(input.Code)
	count, err := s.couponRepo.CountByCode(code, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCouponCodeTaken
	}
	if err := s.checkProducts(input.ProductIDs); err != nil {
		return nil, err
	}

	coupon := models.Coupon{
		Code:              code,
		Description:       input.Description,
		DiscountType:      normalizeDiscountType(input.DiscountType),
		DiscountValue:     models.NewMoneyFromDecimal(input.DiscountValue),
		MinPurchaseAmount: models.NewMoneyFromDecimal(input.MinPurchaseAmount),
		MaxDiscountAmount: models.NewMoneyFromDecimal(input.MaxDiscountAmount),
		UsageLimit:        input.UsageLimit,
		StartsAt:          input.StartsAt,
		EndsAt:            input.EndsAt,
		IsActive:          input.IsActive,
	}
	if err := s.couponRepo.Create(&coupon); err != nil {
		return nil, err
	}
	if len(input.ProductIDs) > 0 {
		if err := s.couponRepo.ReplaceProducts(coupon.ID, input.ProductIDs); err != nil {
			return nil, err
		}
	}
	return s.Get(coupon.ID)
}

// Update updates a coupon and replaces its product scoping
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	code := normalizeCouponCode(input.Code)
	count, err := s.couponRepo.CountByCode(code, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCouponCodeTaken
	}
	if err := s.checkProducts(input.ProductIDs); err != nil {
		return nil, err
	}

	coupon.Code = code
	coupon.Description = input.Description
	coupon.DiscountType = normalizeDiscountType(input.DiscountType)
	coupon.DiscountValue = models.NewMoneyFromDecimal(input.DiscountValue)
	coupon.MinPurchaseAmount = models.NewMoneyFromDecimal(input.MinPurchaseAmount)
	coupon.MaxDiscountAmount = models.NewMoneyFromDecimal(input.MaxDiscountAmount)
	coupon.UsageLimit = input.UsageLimit
	coupon.StartsAt = input.StartsAt
	coupon.EndsAt = input.EndsAt
	coupon.IsActive = input.IsActive
	coupon.Products = nil

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	if err := s.couponRepo.ReplaceProducts(coupon.ID, input.ProductIDs); err != nil {
		return nil, err
	}
	return s.Get(coupon.ID)
}

// Delete removes a coupon
func (s *CouponAdminService) Delete(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}

func (s *CouponAdminService) checkProducts(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return err
	}
	if len(products) != len(dedupeIDs(ids)) {
		return ErrProductNotFound
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
