package public

import "github.com/glowmart/glowmart-api/internal/provider"

// Handler storefront and guest API handlers
type Handler struct {
	*provider.Container
}

// New creates the storefront handler
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
