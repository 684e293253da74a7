package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/repository"
	"github.com/glowmart/glowmart-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type orderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items          []orderItemRequest `json:"items" binding:"required"`
	CouponCode     string             `json:"coupon_code"`
	PaymentMethod  string             `json:"payment_method"`
	DeliveryCharge decimal.Decimal    `json:"delivery_charge"`
	ShippingName   string             `json:"shipping_name" binding:"required"`
	ShippingPhone  string             `json:"shipping_phone" binding:"required"`
	ShippingEmail  string             `json:"shipping_email"`
	AddressLine1   string             `json:"address_line1" binding:"required"`
	AddressLine2   string             `json:"address_line2"`
	City           string             `json:"city" binding:"required"`
	State          string             `json:"state" binding:"required"`
	PostalCode     string             `json:"postal_code" binding:"required"`
	Country        string             `json:"country"`
}

// CreateOrder places an order for the signed-in user
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	items := make([]service.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:         userID,
		Items:          items,
		CouponCode:     req.CouponCode,
		PaymentMethod:  req.PaymentMethod,
		DeliveryCharge: req.DeliveryCharge,
		ShippingName:   req.ShippingName,
		ShippingPhone:  req.ShippingPhone,
		ShippingEmail:  req.ShippingEmail,
		AddressLine1:   req.AddressLine1,
		AddressLine2:   req.AddressLine2,
		City:           req.City,
		State:          req.State,
		PostalCode:     req.PostalCode,
		Country:        req.Country,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders lists the signed-in user's orders
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListForUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOrder fetches one of the signed-in user's orders
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}

	order, err := h.OrderService.GetForUser(uint(orderID), userID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// TrackOrder returns live carrier tracking for the user's own order
func (h *Handler) TrackOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}

	tracking, err := h.ShipmentService.TrackForUser(c.Request.Context(), uint(orderID), userID)
	if err != nil {
		respondTrackingError(c, err)
		return
	}
	response.Success(c, tracking)
}

type validateCouponRequest struct {
	Code       string          `json:"code" binding:"required"`
	Subtotal   decimal.Decimal `json:"subtotal" binding:"required"`
	ProductIDs []uint          `json:"product_ids"`
}

// ValidateCoupon quotes a coupon against a cart before checkout
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	quote, err := h.CouponService.Validate(req.Code, req.Subtotal, req.ProductIDs)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "coupon validation failed")
		return
	}
	response.Success(c, gin.H{
		"code":     quote.Coupon.Code,
		"discount": quote.Discount.Round(2).StringFixed(2),
	})
}
