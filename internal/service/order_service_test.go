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

func newOrderTestService(t *testing.T, name string) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Coupon{}, &models.CouponProduct{},
		&models.GSTRate{}, &models.ProductGSTRate{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponService := NewCouponService(repository.NewCouponRepository(db))
	gstService := NewGSTService(repository.NewGSTRepository(db), productRepo)
	return NewOrderService(orderRepo, productRepo, couponService, gstService), db
}

func seedCheckout(t *testing.T, db *gorm.DB, stock int, price float64) (*models.User, *models.Product) {
	t.Helper()
	user := models.User{FullName: "Meera Iyer", Email: fmt.Sprintf("meera%d@example.com", time.Now().UnixNano()), PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	category := models.Category{Slug: fmt.Sprintf("moisturizers-%d", time.Now().UnixNano()), Name: "Moisturizers", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID: category.ID,
		Slug:       fmt.Sprintf("gel-cream-%d", time.Now().UnixNano()),
		Name:       "Gel Cream",
		SKU:        "GC-50",
		Price:      models.NewMoneyFromFloat(price),
		Stock:      stock,
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &user, &product
}

func baseCheckoutInput(userID uint, items ...CreateOrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		UserID:        userID,
		Items:         items,
		PaymentMethod: constants.PaymentMethodCOD,
		ShippingName:  "Meera Iyer",
		ShippingPhone: "9876501234",
		AddressLine1:  "4 Residency Road",
		City:          "Chennai",
		State:         "Tamil Nadu",
		PostalCode:    "600001",
	}
}

func TestCreateOrderCapturesPriceAndGST(t *testing.T) {
	svc, db := newOrderTestService(t, "capture")
	user, product := seedCheckout(t, db, 10, 400)

	gstService := NewGSTService(repository.NewGSTRepository(db), repository.NewProductRepository(db))
	if _, err := gstService.CreateRate(GSTRateInput{Name: "Standard", Percentage: 18, IsActive: true}); err != nil {
		t.Fatalf("create gst rate failed: %v", err)
	}

	order, err := svc.CreateOrder(baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 2}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.Subtotal.String() != "800.00" {
		t.Fatalf("unexpected subtotal: %s", order.Subtotal)
	}
	if order.GSTAmount.String() != "144.00" {
		t.Fatalf("unexpected gst: %s", order.GSTAmount)
	}
	if order.TotalAmount.String() != "944.00" {
		t.Fatalf("unexpected total: %s", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].GSTPercent != 18 {
		t.Fatalf("gst percent not captured on item: %+v", order.Items)
	}
	if order.Items[0].UnitPrice.String() != "400.00" {
		t.Fatalf("unit price not captured: %s", order.Items[0].UnitPrice)
	}

	var stored models.Product
	if err := db.First(&stored, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if stored.Stock != 8 {
		t.Fatalf("stock not reserved, got %d", stored.Stock)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, db := newOrderTestService(t, "stock")
	user, product := seedCheckout(t, db, 1, 400)

	_, err := svc.CreateOrder(baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 2}))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed checkout must not create orders, got %d", count)
	}
}

func TestCreateOrderAppliesCoupon(t *testing.T) {
	svc, db := newOrderTestService(t, "coupon")
	user, product := seedCheckout(t, db, 10, 500)

	admin := NewCouponAdminService(repository.NewCouponRepository(db), repository.NewProductRepository(db))
	coupon, err := admin.Create(CouponInput{
		Code:          "FLAT100",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(100),
		UsageLimit:    5,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	input := baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	input.CouponCode = "flat100"
	order, err := svc.CreateOrder(input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.DiscountAmount.String() != "100.00" {
		t.Fatalf("unexpected discount: %s", order.DiscountAmount)
	}
	if order.TotalAmount.String() != "400.00" {
		t.Fatalf("unexpected total: %s", order.TotalAmount)
	}
	if order.CouponID == nil || *order.CouponID != coupon.ID {
		t.Fatalf("coupon not linked: %+v", order.CouponID)
	}

	var stored models.Coupon
	if err := db.First(&stored, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if stored.UsedCount != 1 {
		t.Fatalf("coupon usage not counted, got %d", stored.UsedCount)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, db := newOrderTestService(t, "transitions")
	user, product := seedCheckout(t, db, 10, 400)

	order, err := svc.CreateOrder(baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("pending cannot jump to delivered, got %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	updated, err := svc.UpdateStatus(order.ID, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("delivered is terminal, got %v", err)
	}
}

func TestCancelRestocks(t *testing.T) {
	svc, db := newOrderTestService(t, "restock")
	user, product := seedCheckout(t, db, 5, 400)

	order, err := svc.CreateOrder(baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	var afterOrder models.Product
	if err := db.First(&afterOrder, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if afterOrder.Stock != 2 {
		t.Fatalf("expected stock 2 after order, got %d", afterOrder.Stock)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	var restocked models.Product
	if err := db.First(&restocked, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if restocked.Stock != 5 {
		t.Fatalf("cancel must restock, got %d", restocked.Stock)
	}
}

func TestGetForUserScoping(t *testing.T) {
	svc, db := newOrderTestService(t, "scoping")
	user, product := seedCheckout(t, db, 10, 400)

	order, err := svc.CreateOrder(baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.GetForUser(order.ID, user.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetForUser(order.ID, user.ID+1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order must look missing, got %v", err)
	}
}

func TestExportPDFContainsOrders(t *testing.T) {
	svc, db := newOrderTestService(t, "export")
	user, product := seedCheckout(t, db, 10, 400)

	if _, err := svc.CreateOrder(baseCheckoutInput(user.ID, CreateOrderItemInput{ProductID: product.ID, Quantity: 1})); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	export := NewOrderExportService(repository.NewOrderRepository(db))
	pdf, err := export.ExportPDF(ExportOrdersInput{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(pdf) == 0 || string(pdf[:4]) != "%PDF" {
		t.Fatalf("output is not a PDF, %d bytes", len(pdf))
	}
}
