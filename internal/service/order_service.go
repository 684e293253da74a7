package service

import (
	"fmt"
	"time"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService order intake and admin order management
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	couponService *CouponService
	gstService    *GSTService
}

// NewOrderService creates the order service
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, couponService *CouponService, gstService *GSTService) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		couponService: couponService,
		gstService:    gstService,
	}
}

// CreateOrderItemInput one cart line
type CreateOrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderInput checkout payload
type CreateOrderInput struct {
	UserID         uint
	Items          []CreateOrderItemInput
	CouponCode     string
	PaymentMethod  string
	DeliveryCharge decimal.Decimal
	ShippingName   string
	ShippingPhone  string
	ShippingEmail  string
	AddressLine1   string
	AddressLine2   string
	City           string
	State          string
	PostalCode     string
	Country        string
}

// CreateOrder places an order: prices and GST are captured from the
// catalog at purchase time, stock is reserved, and the coupon counter
// bumps in the same transaction.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 || len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	ids := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	subtotal := decimal.Zero
	gstTotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}
		if product.Stock < line.Quantity {
			return nil, ErrInsufficientStock
		}
		gstPct, err := s.gstService.EffectivePercentage(product.ID)
		if err != nil {
			return nil, err
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		gstTotal = gstTotal.Add(lineTotal.Mul(decimal.NewFromFloat(gstPct)).Div(decimal.NewFromInt(100)))
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			GSTPercent:  gstPct,
			TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
		})
	}

	discount := decimal.Zero
	var couponID *uint
	if input.CouponCode != "" {
		quote, err := s.couponService.Validate(input.CouponCode, subtotal, ids)
		if err != nil {
			return nil, err
		}
		discount = quote.Discount
		couponID = &quote.Coupon.ID
	}

	total := subtotal.Sub(discount).Add(gstTotal).Add(input.DeliveryCharge)
	if total.IsNegative() {
		total = decimal.Zero
	}

	country := input.Country
	if country == "" {
		country = "India"
	}
	order := &models.Order{
		OrderNo:        newOrderNo(),
		UserID:         input.UserID,
		Status:         constants.OrderStatusPending,
		PaymentMethod:  normalizePaymentMethod(input.PaymentMethod),
		PaymentStatus:  constants.PaymentStatusPending,
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		DiscountAmount: models.NewMoneyFromDecimal(discount),
		GSTAmount:      models.NewMoneyFromDecimal(gstTotal),
		DeliveryCharge: models.NewMoneyFromDecimal(input.DeliveryCharge),
		TotalAmount:    models.NewMoneyFromDecimal(total),
		CouponID:       couponID,
		ShippingName:   input.ShippingName,
		ShippingPhone:  input.ShippingPhone,
		ShippingEmail:  input.ShippingEmail,
		AddressLine1:   input.AddressLine1,
		AddressLine2:   input.AddressLine2,
		City:           input.City,
		State:          input.State,
		PostalCode:     input.PostalCode,
		Country:        country,
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := s.productRepo.AdjustStock(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		if couponID != nil {
			if err := s.couponService.Redeem(tx, *couponID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_placed", "order_id", order.ID, "order_no", order.OrderNo, "user_id", order.UserID, "total", order.TotalAmount.String())
	return s.orderRepo.GetByID(order.ID)
}

// ListForUser lists a user's own orders
func (s *OrderService) ListForUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// GetForUser fetches one order scoped to its owner
func (s *OrderService) GetForUser(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin lists orders with admin filters
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// Get fetches one order unscoped
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along the status machine; restocking on
// cancellation happens in the same transaction
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !CanTransitionOrderStatus(order.Status, status) {
			return ErrInvalidOrderStatus
		}
		if status == constants.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := s.productRepo.AdjustStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, status, nil)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated", "order_id", orderID, "status", status)
	return s.Get(orderID)
}

func normalizePaymentMethod(method string) string {
	if method == constants.PaymentMethodPrepaid {
		return constants.PaymentMethodPrepaid
	}
	return constants.PaymentMethodCOD
}

func newOrderNo() string {
	return fmt.Sprintf("GM%s%s", time.Now().Format("20060102"), uuid.NewString()[:8])
}
