// Package requestid tags every request with a correlation ID. An inbound
// X-Request-ID from the proxy is kept so traces line up across services;
// otherwise a fresh ID is minted.
package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the correlation ID on both request and response.
const Header = "X-Request-ID"

const ctxKey = "requestID"

// Middleware resolves the request ID and echoes it on the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// Value returns the request's correlation ID, or "" outside the middleware.
func Value(c *gin.Context) string {
	return c.GetString(ctxKey)
}
