package public

import (
	"strings"

	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cartKeyHeader = "X-Cart-Key"

// requestLog returns a logger bound to the request id.
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

func respondError(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		requestLog(c).Errorw("handler_error",
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

// cartKey resolves the client cart key from header or query.
func cartKey(c *gin.Context) string {
	key := strings.TrimSpace(c.GetHeader(cartKeyHeader))
	if key == "" {
		key = strings.TrimSpace(c.Query("cart_key"))
	}
	return key
}
