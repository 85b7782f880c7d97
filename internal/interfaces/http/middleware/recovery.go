package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Recovery turns a handler panic into a 500 response with the standard error
// envelope.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.WithContext(c.Request.Context()).Error("panic recovered",
				logging.String("panic", fmt.Sprint(rec)),
				logging.String("path", c.Request.URL.Path),
				logging.String("stack", string(debug.Stack())),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    string(errors.ErrCodeInternal),
					"message": errors.DefaultMessageForCode(errors.ErrCodeInternal),
				},
			})
		}()
		c.Next()
	}
}

// BodyLimit caps request bodies at limit bytes.  Reads past the limit fail,
// which surfaces as a bad request from the JSON binder.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			if c.Request.ContentLength > limit {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
					"success": false,
					"error": gin.H{
						"code":    string(errors.ErrCodeBadRequest),
						"message": fmt.Sprintf("request body exceeds %d bytes", limit),
					},
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

//Personal.AI order the ending
