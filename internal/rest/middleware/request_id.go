package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/revboard/revboard/internal/types"
)

// RequestIDMiddleware attaches a request ID to the request context and echoes
// it back in the response headers. An inbound X-Request-ID is honored so IDs
// propagate across services.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Writer.Header().Set(types.HeaderRequestID, requestID)
	c.Next()
}
