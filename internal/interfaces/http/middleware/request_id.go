// Package middleware holds the gin middleware shared by every JurisCompare
// HTTP route.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID propagates the caller's X-Request-ID or assigns a fresh one.  The
// id is echoed in the response and attached to the request context so that
// logging.Logger.WithContext picks it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

//Personal.AI order the ending
