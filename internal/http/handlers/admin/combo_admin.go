package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/repository"
	"github.com/glowmart/glowmart-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ComboItemRequest one product line in a combo
type ComboItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// ComboRequest combo create/update payload
type ComboRequest struct {
	Title         string             `json:"title" binding:"required"`
	Description   string             `json:"description"`
	ImageURL1     string             `json:"image_url1"`
	ImageURL2     string             `json:"image_url2"`
	ImageURL3     string             `json:"image_url3"`
	ImageURL4     string             `json:"image_url4"`
	DiscountType  string             `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	StartsAt      *time.Time         `json:"starts_at"`
	EndsAt        *time.Time         `json:"ends_at"`
	IsActive      *bool              `json:"is_active"`
	Items         []ComboItemRequest `json:"items" binding:"required"`
}

func (r ComboRequest) toInput() service.ComboInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	items := make([]service.ComboItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, service.ComboItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return service.ComboInput{
		Title:         r.Title,
		Description:   r.Description,
		ImageURL1:     r.ImageURL1,
		ImageURL2:     r.ImageURL2,
		ImageURL3:     r.ImageURL3,
		ImageURL4:     r.ImageURL4,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		IsActive:      active,
		Items:         items,
	}
}

// GetAdminCombos lists combo offers with pricing
func (h *Handler) GetAdminCombos(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	combos, total, err := h.ComboService.List(repository.ComboListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "combo list failed", err)
		return
	}
	response.SuccessWithPage(c, combos, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetAdminCombo fetches one combo offer
func (h *Handler) GetAdminCombo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	combo, err := h.ComboService.Get(id)
	if err != nil {
		respondComboError(c, err)
		return
	}
	response.Success(c, combo)
}

// CreateCombo creates a combo offer
func (h *Handler) CreateCombo(c *gin.Context) {
	var req ComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	combo, err := h.ComboService.Create(req.toInput())
	if err != nil {
		respondComboError(c, err)
		return
	}
	response.Success(c, combo)
}

// UpdateCombo updates a combo offer
func (h *Handler) UpdateCombo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	combo, err := h.ComboService.Update(id, req.toInput())
	if err != nil {
		respondComboError(c, err)
		return
	}
	response.Success(c, combo)
}

// DeleteCombo removes a combo offer
func (h *Handler) DeleteCombo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ComboService.Delete(id); err != nil {
		respondComboError(c, err)
		return
	}
	response.Success(c, nil)
}

func respondComboError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrComboNotFound):
		respondError(c, response.CodeNotFound, "combo offer not found", nil)
	case errors.Is(err, service.ErrComboInvalid):
		respondError(c, response.CodeBadRequest, "combo offer requires valid product lines", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "combo references an unknown product", nil)
	default:
		respondError(c, response.CodeInternal, "combo save failed", err)
	}
}
