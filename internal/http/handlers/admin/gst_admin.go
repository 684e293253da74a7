package admin

import (
	"errors"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GSTRateRequest store-wide GST rate payload
type GSTRateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Percentage  float64 `json:"percentage"`
	IsActive    bool    `json:"is_active"`
}

func (r GSTRateRequest) toInput() service.GSTRateInput {
	return service.GSTRateInput{
		Name:        r.Name,
		Description: r.Description,
		Percentage:  r.Percentage,
		IsActive:    r.IsActive,
	}
}

// GetGSTRates lists GST rates
func (h *Handler) GetGSTRates(c *gin.Context) {
	rates, err := h.GSTService.ListRates()
	if err != nil {
		respondError(c, response.CodeInternal, "gst rate list failed", err)
		return
	}
	response.Success(c, rates)
}

// CreateGSTRate creates a GST rate
func (h *Handler) CreateGSTRate(c *gin.Context) {
	var req GSTRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	rate, err := h.GSTService.CreateRate(req.toInput())
	if err != nil {
		respondGSTError(c, err)
		return
	}
	response.Success(c, rate)
}

// UpdateGSTRate updates a GST rate
func (h *Handler) UpdateGSTRate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req GSTRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	rate, err := h.GSTService.UpdateRate(id, req.toInput())
	if err != nil {
		respondGSTError(c, err)
		return
	}
	response.Success(c, rate)
}

// ActivateGSTRate makes a rate the store-wide active one
func (h *Handler) ActivateGSTRate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.GSTService.ActivateRate(id); err != nil {
		respondGSTError(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteGSTRate removes an inactive GST rate
func (h *Handler) DeleteGSTRate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.GSTService.DeleteRate(id); err != nil {
		respondGSTError(c, err)
		return
	}
	response.Success(c, nil)
}

// ProductGSTRateRequest per-product GST override payload
type ProductGSTRateRequest struct {
	ProductID  uint    `json:"product_id" binding:"required"`
	Percentage float64 `json:"percentage"`
}

// GetProductGSTRates lists per-product overrides
func (h *Handler) GetProductGSTRates(c *gin.Context) {
	rates, err := h.GSTService.ListProductRates()
	if err != nil {
		respondError(c, response.CodeInternal, "product gst rate list failed", err)
		return
	}
	response.Success(c, rates)
}

// SetProductGSTRate upserts a per-product override
func (h *Handler) SetProductGSTRate(c *gin.Context) {
	var req ProductGSTRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	rate, err := h.GSTService.SetProductRate(service.ProductRateInput{
		ProductID:  req.ProductID,
		Percentage: req.Percentage,
	})
	if err != nil {
		respondGSTError(c, err)
		return
	}
	response.Success(c, rate)
}

// RemoveProductGSTRate drops a per-product override
func (h *Handler) RemoveProductGSTRate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.GSTService.RemoveProductRate(id); err != nil {
		respondGSTError(c, err)
		return
	}
	response.Success(c, nil)
}

func respondGSTError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGSTRateNotFound):
		respondError(c, response.CodeNotFound, "gst rate not found", nil)
	case errors.Is(err, service.ErrGSTInvalidPercent):
		respondError(c, response.CodeBadRequest, "gst percentage must be between 0 and 100", nil)
	case errors.Is(err, service.ErrGSTRateInUse):
		respondError(c, response.CodeBadRequest, "the only active gst rate cannot be deleted", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "product not found", nil)
	default:
		respondError(c, response.CodeInternal, "gst rate save failed", err)
	}
}
