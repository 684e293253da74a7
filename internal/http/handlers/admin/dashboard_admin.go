package admin

import (
	"time"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview returns the cached store snapshot
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	input := service.DashboardQueryInput{
		ForceRefresh: c.Query("force") == "1",
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "from must be yyyy-mm-dd", nil)
			return
		}
		input.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "to must be yyyy-mm-dd", nil)
			return
		}
		end := to.AddDate(0, 0, 1)
		input.To = &end
	}

	overview, err := h.DashboardService.Overview(c.Request.Context(), input)
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard query failed", err)
		return
	}
	response.Success(c, overview)
}
