package public

import "github.com/carman72tmn/foodtech/internal/provider"

// Handler serves the customer-facing API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
