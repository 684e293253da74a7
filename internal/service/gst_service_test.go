package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newGSTTestService(t *testing.T, name string) (*GSTService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:gst_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.GSTRate{}, &models.ProductGSTRate{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewGSTService(repository.NewGSTRepository(db), repository.NewProductRepository(db)), db
}

func seedGSTProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	category := models.Category{Slug: fmt.Sprintf("serums-%d", time.Now().UnixNano()), Name: "Serums", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID: category.ID,
		Slug:       fmt.Sprintf("vitamin-c-%d", time.Now().UnixNano()),
		Name:       "Vitamin C Serum",
		Price:      models.NewMoneyFromFloat(599),
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func TestActivateRateDeactivatesOthers(t *testing.T) {
	svc, db := newGSTTestService(t, "activate")

	first, err := svc.CreateRate(GSTRateInput{Name: "Standard", Percentage: 18, IsActive: true})
	if err != nil {
		t.Fatalf("create first rate failed: %v", err)
	}
	second, err := svc.CreateRate(GSTRateInput{Name: "Reduced", Percentage: 12})
	if err != nil {
		t.Fatalf("create second rate failed: %v", err)
	}

	if err := svc.ActivateRate(second.ID); err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	var active []models.GSTRate
	if err := db.Where("is_active = ?", true).Find(&active).Error; err != nil {
		t.Fatalf("query active rates failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("exactly the activated rate must be active, got %+v", active)
	}
	_ = first
}

func TestCreateActiveRateDeactivatesOthers(t *testing.T) {
	svc, db := newGSTTestService(t, "create_active")

	if _, err := svc.CreateRate(GSTRateInput{Name: "Standard", Percentage: 18, IsActive: true}); err != nil {
		t.Fatalf("create rate failed: %v", err)
	}
	if _, err := svc.CreateRate(GSTRateInput{Name: "Luxury", Percentage: 28, IsActive: true}); err != nil {
		t.Fatalf("create rate failed: %v", err)
	}

	var count int64
	db.Model(&models.GSTRate{}).Where("is_active = ?", true).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single active rate, got %d", count)
	}
}

func TestDeleteOnlyActiveRateRejected(t *testing.T) {
	svc, _ := newGSTTestService(t, "delete_active")

	rate, err := svc.CreateRate(GSTRateInput{Name: "Standard", Percentage: 18, IsActive: true})
	if err != nil {
		t.Fatalf("create rate failed: %v", err)
	}

	if err := svc.DeleteRate(rate.ID); !errors.Is(err, ErrGSTRateInUse) {
		t.Fatalf("expected ErrGSTRateInUse, got %v", err)
	}

	inactive, err := svc.CreateRate(GSTRateInput{Name: "Reduced", Percentage: 12})
	if err != nil {
		t.Fatalf("create rate failed: %v", err)
	}
	if err := svc.DeleteRate(inactive.ID); err != nil {
		t.Fatalf("deleting an inactive rate must work: %v", err)
	}
}

func TestPercentageBounds(t *testing.T) {
	svc, _ := newGSTTestService(t, "bounds")

	if _, err := svc.CreateRate(GSTRateInput{Name: "Bad", Percentage: 101}); !errors.Is(err, ErrGSTInvalidPercent) {
		t.Fatalf("expected ErrGSTInvalidPercent, got %v", err)
	}
	if _, err := svc.CreateRate(GSTRateInput{Name: "Bad", Percentage: -1}); !errors.Is(err, ErrGSTInvalidPercent) {
		t.Fatalf("expected ErrGSTInvalidPercent, got %v", err)
	}
}

func TestEffectivePercentagePrefersProductOverride(t *testing.T) {
	svc, db := newGSTTestService(t, "effective")
	product := seedGSTProduct(t, db)

	if _, err := svc.CreateRate(GSTRateInput{Name: "Standard", Percentage: 18, IsActive: true}); err != nil {
		t.Fatalf("create rate failed: %v", err)
	}

	pct, err := svc.EffectivePercentage(product.ID)
	if err != nil {
		t.Fatalf("effective percentage failed: %v", err)
	}
	if pct != 18 {
		t.Fatalf("expected active store rate 18, got %v", pct)
	}

	if _, err := svc.SetProductRate(ProductRateInput{ProductID: product.ID, Percentage: 5}); err != nil {
		t.Fatalf("set product rate failed: %v", err)
	}
	pct, err = svc.EffectivePercentage(product.ID)
	if err != nil {
		t.Fatalf("effective percentage failed: %v", err)
	}
	if pct != 5 {
		t.Fatalf("product override must win, got %v", pct)
	}

	if err := svc.RemoveProductRate(product.ID); err != nil {
		t.Fatalf("remove product rate failed: %v", err)
	}
	pct, err = svc.EffectivePercentage(product.ID)
	if err != nil {
		t.Fatalf("effective percentage failed: %v", err)
	}
	if pct != 18 {
		t.Fatalf("store rate must apply after override removal, got %v", pct)
	}
}

func TestSetProductRateUpserts(t *testing.T) {
	svc, db := newGSTTestService(t, "upsert")
	product := seedGSTProduct(t, db)

	if _, err := svc.SetProductRate(ProductRateInput{ProductID: product.ID, Percentage: 12}); err != nil {
		t.Fatalf("set product rate failed: %v", err)
	}
	if _, err := svc.SetProductRate(ProductRateInput{ProductID: product.ID, Percentage: 18}); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	var count int64
	db.Model(&models.ProductGSTRate{}).Where("product_id = ?", product.ID).Count(&count)
	if count != 1 {
		t.Fatalf("override must upsert, got %d rows", count)
	}

	pct, err := svc.EffectivePercentage(product.ID)
	if err != nil {
		t.Fatalf("effective percentage failed: %v", err)
	}
	if pct != 18 {
		t.Fatalf("latest override must win, got %v", pct)
	}
}

func TestSetProductRateUnknownProduct(t *testing.T) {
	svc, _ := newGSTTestService(t, "unknown_product")
	if _, err := svc.SetProductRate(ProductRateInput{ProductID: 999, Percentage: 12}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
