package public

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/service"
	"github.com/glowmart/glowmart-api/internal/shipping/shiprocket"

	"github.com/gin-gonic/gin"
)

// CheckServiceability checks courier availability for a delivery pincode
func (h *Handler) CheckServiceability(c *gin.Context) {
	delivery := strings.TrimSpace(c.Query("delivery_postcode"))
	if delivery == "" {
		respondError(c, response.CodeBadRequest, "delivery_postcode is required", nil)
		return
	}
	weight, _ := strconv.ParseFloat(c.DefaultQuery("weight", "0"), 64)

	result, err := h.ShipmentService.CheckServiceability(c.Request.Context(), shiprocket.ServiceabilityQuery{
		PickupPostcode:   strings.TrimSpace(c.Query("pickup_postcode")),
		DeliveryPostcode: delivery,
		WeightKG:         weight,
		COD:              c.Query("cod") == "1",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "serviceability check failed", err)
		return
	}
	response.Success(c, result)
}

// ShipmentWebhook ingests carrier status callbacks. The carrier retries
// on non-200 responses, so this endpoint always acknowledges; failures
// are parked in the dead-letter table and replayed by the worker.
func (h *Handler) ShipmentWebhook(c *gin.Context) {
	token := strings.TrimSpace(h.Config.Shiprocket.WebhookToken)
	if token != "" && c.GetHeader("x-api-key") != token {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "unauthorized"})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}

	var payload service.WebhookPayload
	// An unparseable body still goes through ApplyWebhook so it lands
	// in the dead-letter table with the raw payload intact.
	_ = json.Unmarshal(raw, &payload)

	h.ShipmentService.ApplyWebhook(payload, raw)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
