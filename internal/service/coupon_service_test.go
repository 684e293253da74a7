package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponTestService(t *testing.T, name string) (*CouponService, *CouponAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Coupon{}, &models.CouponProduct{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	couponRepo := repository.NewCouponRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewCouponService(couponRepo), NewCouponAdminService(couponRepo, productRepo), db
}

func TestCouponCodeUppercasedAndUnique(t *testing.T) {
	_, admin, _ := newCouponTestService(t, "code")

	coupon, err := admin.Create(CouponInput{
		Code:          "glow10",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	if coupon.Code != "GLOW10" {
		t.Fatalf("code must be uppercased, got %s", coupon.Code)
	}

	_, err = admin.Create(CouponInput{
		Code:          "GLOW10",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(5),
	})
	if !errors.Is(err, ErrCouponCodeTaken) {
		t.Fatalf("expected ErrCouponCodeTaken, got %v", err)
	}
}

func TestCouponValidatePercentageWithCap(t *testing.T) {
	svc, admin, _ := newCouponTestService(t, "cap")

	if _, err := admin.Create(CouponInput{
		Code:              "FESTIVE20",
		DiscountType:      constants.DiscountTypePercentage,
		DiscountValue:     decimal.NewFromInt(20),
		MaxDiscountAmount: decimal.NewFromInt(150),
		IsActive:          true,
	}); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	quote, err := svc.Validate("festive20", decimal.NewFromInt(1000), nil)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	// 20% of 1000 = 200, capped at 150
	if !quote.Discount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("discount cap not applied, got %s", quote.Discount)
	}
}

func TestCouponMinPurchase(t *testing.T) {
	svc, admin, _ := newCouponTestService(t, "min")

	if _, err := admin.Create(CouponInput{
		Code:              "BIGCART",
		DiscountType:      constants.DiscountTypeFixed,
		DiscountValue:     decimal.NewFromInt(100),
		MinPurchaseAmount: decimal.NewFromInt(999),
		IsActive:          true,
	}); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	if _, err := svc.Validate("BIGCART", decimal.NewFromInt(500), nil); !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("expected ErrCouponMinAmount, got %v", err)
	}
	if _, err := svc.Validate("BIGCART", decimal.NewFromInt(999), nil); err != nil {
		t.Fatalf("subtotal at the minimum must pass: %v", err)
	}
}

func TestCouponValidityWindow(t *testing.T) {
	svc, admin, _ := newCouponTestService(t, "window")

	past := time.Now().Add(-48 * time.Hour)
	ended := time.Now().Add(-24 * time.Hour)
	if _, err := admin.Create(CouponInput{
		Code:          "EXPIRED",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50),
		StartsAt:      &past,
		EndsAt:        &ended,
		IsActive:      true,
	}); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	if _, err := svc.Validate("EXPIRED", decimal.NewFromInt(500), nil); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}
}

func TestCouponUsageLimit(t *testing.T) {
	svc, admin, db := newCouponTestService(t, "usage")

	coupon, err := admin.Create(CouponInput{
		Code:          "ONCE",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50),
		UsageLimit:    1,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	if _, err := svc.Validate("ONCE", decimal.NewFromInt(500), nil); err != nil {
		t.Fatalf("first use must pass: %v", err)
	}
	if err := svc.Redeem(nil, coupon.ID); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	_ = db
	if _, err := svc.Validate("ONCE", decimal.NewFromInt(500), nil); !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected ErrCouponUsageLimit, got %v", err)
	}
}

func TestCouponProductScoping(t *testing.T) {
	svc, admin, db := newCouponTestService(t, "scope")

	category := models.Category{Slug: "scoped", Name: "Scoped", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	inScope := models.Product{CategoryID: category.ID, Slug: "in-scope", Name: "In Scope", Price: models.NewMoneyFromFloat(500), IsActive: true}
	outOfScope := models.Product{CategoryID: category.ID, Slug: "out-of-scope", Name: "Out", Price: models.NewMoneyFromFloat(300), IsActive: true}
	if err := db.Create(&inScope).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := db.Create(&outOfScope).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if _, err := admin.Create(CouponInput{
		Code:          "SERUMONLY",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		ProductIDs:    []uint{inScope.ID},
	}); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	if _, err := svc.Validate("SERUMONLY", decimal.NewFromInt(500), []uint{outOfScope.ID}); !errors.Is(err, ErrCouponNotApplicable) {
		t.Fatalf("expected ErrCouponNotApplicable, got %v", err)
	}
	if _, err := svc.Validate("SERUMONLY", decimal.NewFromInt(500), []uint{inScope.ID, outOfScope.ID}); err != nil {
		t.Fatalf("cart containing a scoped product must pass: %v", err)
	}
}

func TestCouponUnknownCode(t *testing.T) {
	svc, _, _ := newCouponTestService(t, "unknown")
	if _, err := svc.Validate("NOPE", decimal.NewFromInt(500), nil); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}
