package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/repository"
	"github.com/carman72tmn/foodtech/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders returns orders matching the filter.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var customerID uint
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			customerID = uint(id)
		}
	}

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		CustomerID: customerID,
		Status:     strings.TrimSpace(c.Query("status")),
		OrderNo:    strings.TrimSpace(c.Query("order_no")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
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

// UpdateOrderStatusRequest moves an order along the status machine.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies a manual status transition.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(uint(id), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			respondError(c, response.CodeConflict, "status transition not allowed", nil)
			return
		}
		respondError(c, response.CodeInternal, "order status update failed", err)
		return
	}
	response.Success(c, order)
}

// CancelOrder cancels an order on behalf of an operator.
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

// ResubmitOrder re-enqueues POS submission for an order stuck in status
// new after exhausted retries.
func (h *Handler) ResubmitOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	if err := h.SubmissionService.SubmitOrder(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		respondError(c, response.CodeInternal, "order resubmission failed", err)
		return
	}
	response.SuccessWithMsg(c, "order submitted", nil)
}
