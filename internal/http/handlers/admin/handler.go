package admin

import (
	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler serves the operator API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		logger.Errorw("admin_handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
