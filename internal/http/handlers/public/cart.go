package public

import (
	"errors"

	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest adds quantity of a product to a cart.
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// AddCartItem adds a product to the caller's cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	key := cartKey(c)
	if key == "" {
		respondError(c, response.CodeBadRequest, "cart key is required", nil)
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	cart, err := h.CartService.AddItem(c.Request.Context(), key, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeBadRequest, "product not found", nil)
			return
		}
		if errors.Is(err, service.ErrProductUnavailable) {
			respondError(c, response.CodeBadRequest, "product unavailable", nil)
			return
		}
		respondError(c, response.CodeInternal, "cart update failed", err)
		return
	}
	response.Success(c, cart)
}

// GetCart returns the caller's cart.
func (h *Handler) GetCart(c *gin.Context) {
	key := cartKey(c)
	if key == "" {
		respondError(c, response.CodeBadRequest, "cart key is required", nil)
		return
	}
	cart, err := h.CartService.GetCart(c.Request.Context(), key)
	if err != nil {
		respondError(c, response.CodeInternal, "cart fetch failed", err)
		return
	}
	response.Success(c, cart)
}

// ClearCart drops the caller's cart.
func (h *Handler) ClearCart(c *gin.Context) {
	key := cartKey(c)
	if key == "" {
		respondError(c, response.CodeBadRequest, "cart key is required", nil)
		return
	}
	if err := h.CartService.ClearCart(c.Request.Context(), key); err != nil {
		respondError(c, response.CodeInternal, "cart clear failed", err)
		return
	}
	response.Success(c, nil)
}
