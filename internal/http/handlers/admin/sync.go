package admin

import (
	"strconv"
	"strings"

	"github.com/carman72tmn/foodtech/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SyncMenu triggers a full menu sync.
func (h *Handler) SyncMenu(c *gin.Context) {
	result, err := h.SyncService.SyncMenu(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "menu sync failed", err)
		return
	}
	response.Success(c, result)
}

// SyncPrices triggers a price-only sync.
func (h *Handler) SyncPrices(c *gin.Context) {
	result, err := h.SyncService.SyncPrices(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "price sync failed", err)
		return
	}
	response.Success(c, result)
}

// SyncStopLists triggers a stop list refresh.
func (h *Handler) SyncStopLists(c *gin.Context) {
	result, err := h.SyncService.SyncStopLists(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "stop list sync failed", err)
		return
	}
	response.Success(c, result)
}

// ListSyncLogs returns sync run history.
func (h *Handler) ListSyncLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	syncType := strings.TrimSpace(c.Query("sync_type"))
	logs, total, err := h.SyncService.SyncHistory(syncType, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "sync log list failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}
