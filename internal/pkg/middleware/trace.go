package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderRequestID = "X-Request-ID"

	traceIDKey    = "traceID"
	maxTraceIDLen = 64
)

// TraceMiddleware 透传上游的追踪ID，网关只带 X-Request-ID 时沿用它，都没有则生成
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderTraceID)
		if !validTraceID(traceID) {
			traceID = c.GetHeader(HeaderRequestID)
		}
		if !validTraceID(traceID) {
			traceID = uuid.New().String()
		}

		c.Set(traceIDKey, traceID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}

// GetTraceID 未经过 TraceMiddleware 时为空
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// 外部传入的ID会进日志，只接受短的可打印 ASCII
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
