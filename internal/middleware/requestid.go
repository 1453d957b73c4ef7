package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request identifier on the wire in both directions.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key the identifier is stored under; the
	// request logger in internal/api reads it from there.
	RequestIDKey = "request_id"
)

// RequestIDMiddleware tags every request with an identifier. An inbound
// X-Request-ID (from an upstream proxy or the client) is trusted and reused;
// otherwise a fresh UUID is generated. The identifier is stored on the gin
// context and echoed in the response header so a client can quote it when
// reporting a failed registration or login, and the structured log line for
// that request can be found by the same value.
//
// Register it before the metrics and logging middleware so every log entry
// carries the identifier.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
