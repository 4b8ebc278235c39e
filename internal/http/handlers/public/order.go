package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"
	"github.com/carman72tmn/foodtech/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest is one order line.
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	Phone          string             `json:"phone" binding:"required"`
	Name           string             `json:"name"`
	TelegramID     int64              `json:"telegram_id"`
	BranchID       uint               `json:"branch_id" binding:"required"`
	Items          []OrderItemRequest `json:"items" binding:"required"`
	PromoCode      string             `json:"promo_code"`
	BonusRequested models.Money       `json:"bonus_requested"`
	DeliveryType   string             `json:"delivery_type"`
	Platform       string             `json:"platform"`
	Address        string             `json:"address"`
	Comment        string             `json:"comment"`
}

func (r CreateOrderRequest) quoteItems() []service.QuoteItem {
	items := make([]service.QuoteItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, service.QuoteItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items
}

// PreviewOrder prices a cart without persisting anything.
func (h *Handler) PreviewOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	customer, err := h.CustomerRepo.GetByPhone(req.Phone)
	if err != nil {
		respondError(c, response.CodeInternal, "order preview failed", err)
		return
	}

	quote, err := h.PricingService.Quote(service.QuoteInput{
		Items:          req.quoteItems(),
		Customer:       customer,
		BonusRequested: req.BonusRequested,
		PromoCode:      req.PromoCode,
		BranchID:       req.BranchID,
		Platform:       req.Platform,
		DeliveryType:   req.DeliveryType,
	})
	if err != nil {
		respondOrderPreviewError(c, err)
		return
	}
	response.Success(c, quote)
}

// CreateOrder runs checkout.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		Phone:          req.Phone,
		Name:           req.Name,
		TelegramID:     req.TelegramID,
		BranchID:       req.BranchID,
		Items:          req.quoteItems(),
		PromoCode:      req.PromoCode,
		BonusRequested: req.BonusRequested,
		DeliveryType:   req.DeliveryType,
		Platform:       req.Platform,
		Address:        req.Address,
		Comment:        req.Comment,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder fetches one order.
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderService.GetOrder(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// ListOrders lists orders for one customer phone.
func (h *Handler) ListOrders(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		respondError(c, response.CodeBadRequest, "phone is required", nil)
		return
	}
	customer, err := h.CustomerRepo.GetByPhone(phone)
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	if customer == nil {
		response.SuccessWithPage(c, []models.Order{}, response.BuildPagination(1, 20, 0))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		CustomerID: customer.ID,
		Status:     strings.TrimSpace(c.Query("status")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// CancelOrder cancels a non-terminal order.
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			respondError(c, response.CodeConflict, "order can no longer be cancelled", nil)
			return
		}
		respondError(c, response.CodeInternal, "order cancel failed", err)
		return
	}
	response.Success(c, order)
}
