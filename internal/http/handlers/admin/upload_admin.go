package admin

import (
	"errors"
	"strings"

	"github.com/glowmart/glowmart-api/internal/http/response"
	"github.com/glowmart/glowmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadFile stores a product or marketing image and returns its public URL
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file field is required", nil)
		return
	}
	scene := strings.TrimSpace(c.PostForm("scene"))

	url, err := h.UploadService.SaveFile(c.Request.Context(), file, scene)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

type deleteFileRequest struct {
	URL string `json:"url" binding:"required"`
}

// DeleteFile removes a previously uploaded object
func (h *Handler) DeleteFile(c *gin.Context) {
	var req deleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "url is required", err)
		return
	}
	if err := h.UploadService.DeleteFile(c.Request.Context(), req.URL); err != nil {
		respondUploadError(c, err)
		return
	}
	response.Success(c, nil)
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStorageDisabled):
		respondError(c, response.CodeInternal, "object storage is not configured", nil)
	case errors.Is(err, service.ErrUploadTooLarge):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrUploadInvalidType):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "upload failed", err)
	}
}
