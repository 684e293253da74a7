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

func newComboTestService(t *testing.T, name string) (*ComboService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:combo_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ComboOffer{}, &models.ComboOfferItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewComboService(repository.NewComboRepository(db), repository.NewProductRepository(db)), db
}

func seedComboProducts(t *testing.T, db *gorm.DB, prices ...float64) []models.Product {
	t.Helper()
	category := models.Category{Slug: fmt.Sprintf("kits-%d", time.Now().UnixNano()), Name: "Kits", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	products := make([]models.Product, 0, len(prices))
	for i, price := range prices {
		p := models.Product{
			CategoryID: category.ID,
			Slug:       fmt.Sprintf("combo-product-%d-%d", i, time.Now().UnixNano()),
			Name:       fmt.Sprintf("Product %d", i),
			Price:      models.NewMoneyFromFloat(price),
			IsActive:   true,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
		products = append(products, p)
	}
	return products
}

func TestComboPercentagePricing(t *testing.T) {
	svc, db := newComboTestService(t, "percentage")
	products := seedComboProducts(t, db, 500, 300)

	view, err := svc.Create(ComboInput{
		Title:         "Glow Duo",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		Items: []ComboItemInput{
			{ProductID: products[0].ID, Quantity: 1},
			{ProductID: products[1].ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create combo failed: %v", err)
	}

	// 500 + 2*300 = 1100; 10% off = 110
	if view.Pricing.Subtotal.String() != "1100.00" {
		t.Fatalf("unexpected subtotal: %s", view.Pricing.Subtotal)
	}
	if view.Pricing.Discount.String() != "110.00" {
		t.Fatalf("unexpected discount: %s", view.Pricing.Discount)
	}
	if view.Pricing.Total.String() != "990.00" {
		t.Fatalf("unexpected total: %s", view.Pricing.Total)
	}
}

func TestComboFixedDiscountFloorsAtZero(t *testing.T) {
	svc, db := newComboTestService(t, "floor")
	products := seedComboProducts(t, db, 199)

	view, err := svc.Create(ComboInput{
		Title:         "Clearance Kit",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(500),
		IsActive:      true,
		Items:         []ComboItemInput{{ProductID: products[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create combo failed: %v", err)
	}

	if view.Pricing.Discount.String() != "199.00" {
		t.Fatalf("discount must be capped at subtotal, got %s", view.Pricing.Discount)
	}
	if view.Pricing.Total.String() != "0.00" {
		t.Fatalf("total must floor at zero, got %s", view.Pricing.Total)
	}
}

func TestComboRequiresItems(t *testing.T) {
	svc, _ := newComboTestService(t, "no_items")

	_, err := svc.Create(ComboInput{Title: "Empty", DiscountType: constants.DiscountTypePercentage, DiscountValue: decimal.NewFromInt(10)})
	if !errors.Is(err, ErrComboInvalid) {
		t.Fatalf("expected ErrComboInvalid, got %v", err)
	}
}

func TestComboRejectsUnknownProduct(t *testing.T) {
	svc, _ := newComboTestService(t, "unknown")

	_, err := svc.Create(ComboInput{
		Title:         "Ghost Kit",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		Items:         []ComboItemInput{{ProductID: 999, Quantity: 1}},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestComboUpdateReplacesItems(t *testing.T) {
	svc, db := newComboTestService(t, "update")
	products := seedComboProducts(t, db, 500, 300, 250)

	view, err := svc.Create(ComboInput{
		Title:         "Starter Kit",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		Items: []ComboItemInput{
			{ProductID: products[0].ID, Quantity: 1},
			{ProductID: products[1].ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create combo failed: %v", err)
	}

	updated, err := svc.Update(view.ID, ComboInput{
		Title:         "Starter Kit v2",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50),
		IsActive:      true,
		Items:         []ComboItemInput{{ProductID: products[2].ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("update combo failed: %v", err)
	}

	if len(updated.Items) != 1 || updated.Items[0].ProductID != products[2].ID {
		t.Fatalf("items not replaced: %+v", updated.Items)
	}
	if updated.Pricing.Subtotal.String() != "500.00" || updated.Pricing.Total.String() != "450.00" {
		t.Fatalf("unexpected pricing after update: %+v", updated.Pricing)
	}

	var itemCount int64
	db.Model(&models.ComboOfferItem{}).Where("combo_offer_id = ?", view.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Fatalf("stale items left behind: %d", itemCount)
	}
}

func TestComboListOnlyLiveWindow(t *testing.T) {
	svc, db := newComboTestService(t, "live")
	products := seedComboProducts(t, db, 500)

	past := time.Now().Add(-48 * time.Hour)
	ended := time.Now().Add(-24 * time.Hour)
	if _, err := svc.Create(ComboInput{
		Title:         "Expired Kit",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		StartsAt:      &past,
		EndsAt:        &ended,
		Items:         []ComboItemInput{{ProductID: products[0].ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create combo failed: %v", err)
	}
	if _, err := svc.Create(ComboInput{
		Title:         "Open Kit",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
		Items:         []ComboItemInput{{ProductID: products[0].ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create combo failed: %v", err)
	}

	views, total, err := svc.List(repository.ComboListFilter{OnlyActive: true, OnlyLive: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(views) != 1 || views[0].Title != "Open Kit" {
		t.Fatalf("live filter wrong: total=%d views=%+v", total, views)
	}
}

func TestComboDelete(t *testing.T) {
	svc, db := newComboTestService(t, "delete")
	products := seedComboProducts(t, db, 500)

	view, err := svc.Create(ComboInput{
		Title:         "Doomed Kit",
		DiscountType:  constants.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		Items:         []ComboItemInput{{ProductID: products[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create combo failed: %v", err)
	}

	if err := svc.Delete(view.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(view.ID); !errors.Is(err, ErrComboNotFound) {
		t.Fatalf("expected ErrComboNotFound, got %v", err)
	}
}
