package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/repository"
	"github.com/glowmart/glowmart-api/internal/service"
	"github.com/glowmart/glowmart-api/internal/shipping/shiprocket"

	"github.com/gin-gonic/gin"
)

type createShipmentRequest struct {
	PickupLocation string  `json:"pickup_location"`
	LengthCM       float64 `json:"length_cm"`
	BreadthCM      float64 `json:"breadth_cm"`
	HeightCM       float64 `json:"height_cm"`
	WeightKG       float64 `json:"weight_kg"`
}

// CreateShipment registers an order with the carrier
func (h *Handler) CreateShipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	// Body is optional, package overrides only.
	var req createShipmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "invalid request body", err)
			return
		}
	}

	result, err := h.ShipmentService.CreateShipment(c.Request.Context(), service.CreateShipmentInput{
		OrderID:        id,
		PickupLocation: req.PickupLocation,
		LengthCM:       req.LengthCM,
		BreadthCM:      req.BreadthCM,
		HeightCM:       req.HeightCM,
		WeightKG:       req.WeightKG,
	})
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, result)
}

type assignCourierRequest struct {
	CourierID int `json:"courier_id"`
}

// AssignCourier generates an AWB, picking the recommended courier when
// none is specified
func (h *Handler) AssignCourier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req assignCourierRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.ShipmentService.AssignCourier(c.Request.Context(), id, req.CourierID)
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, result)
}

// RequestPickup schedules the carrier pickup for a shipment
func (h *Handler) RequestPickup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ShipmentService.RequestPickup(c.Request.Context(), id)
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, result)
}

// GenerateLabel fetches the shipping label for a shipment
func (h *Handler) GenerateLabel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ShipmentService.GenerateLabel(c.Request.Context(), id)
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, result)
}

// GenerateManifest fetches the manifest for a shipment
func (h *Handler) GenerateManifest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ShipmentService.GenerateManifest(c.Request.Context(), id)
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, result)
}

// CancelShipment cancels the carrier shipment for an order
func (h *Handler) CancelShipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ShipmentService.CancelShipment(c.Request.Context(), id)
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, result)
}

// AdminTrackShipment pulls live tracking for any order
func (h *Handler) AdminTrackShipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tracking, err := h.ShipmentService.Track(c.Request.Context(), id)
	if err != nil {
		respondShipmentError(c, err)
		return
	}
	response.Success(c, tracking)
}

func respondShipmentError(c *gin.Context, err error) {
	var carrierErr *shiprocket.CarrierError
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderNotShippable):
		respondError(c, response.CodeBadRequest, "order is not ready for shipping", nil)
	case errors.Is(err, service.ErrShipmentExists):
		respondError(c, response.CodeBadRequest, "shipment already created for this order", nil)
	case errors.Is(err, service.ErrShipmentNotFound):
		respondError(c, response.CodeBadRequest, "order has no shipment yet", nil)
	case errors.Is(err, service.ErrAWBExists):
		respondError(c, response.CodeBadRequest, "awb already assigned", nil)
	case errors.Is(err, service.ErrAWBMissing):
		respondError(c, response.CodeBadRequest, "assign a courier before this step", nil)
	case errors.Is(err, service.ErrShipmentNotCancelable):
		respondError(c, response.CodeBadRequest, "shipment can no longer be cancelled", nil)
	case errors.Is(err, shiprocket.ErrNoCouriersAvailable):
		respondError(c, response.CodeBadRequest, "no couriers available for this route", nil)
	case errors.Is(err, shiprocket.ErrNotConfigured):
		respondError(c, response.CodeInternal, "carrier credentials are not configured", nil)
	case errors.As(err, &carrierErr):
		respondError(c, response.CodeBadRequest, "carrier rejected the request: "+carrierErr.Message, nil)
	default:
		respondError(c, response.CodeInternal, "carrier operation failed", err)
	}
}

// GetWebhookEvents lists dead-lettered carrier callbacks
func (h *Handler) GetWebhookEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	events, total, err := h.WebhookEventRepo.List(repository.WebhookEventListFilter{
		Page:      page,
		PageSize:  pageSize,
		AWBNumber: strings.TrimSpace(c.Query("awb")),
		Status:    strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "webhook event list failed", err)
		return
	}
	response.SuccessWithPage(c, events, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// RetryWebhookEvent replays one dead-lettered carrier callback
func (h *Handler) RetryWebhookEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ShipmentService.RetryWebhookEvent(id); err != nil {
		respondError(c, response.CodeInternal, "webhook replay failed", err)
		return
	}
	response.Success(c, nil)
}
