// Package handlers implements the gin handlers of the decision engine API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// ErrorBody is the error part of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// RespondError writes err in the error envelope with the status mapped from
// its code.  Errors without a code are masked as internal errors.
func RespondError(c *gin.Context, logger logging.Logger, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.Code == errors.CodeUnknown {
		logger.WithContext(c.Request.Context()).Error("unhandled error", logging.Err(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Error: &ErrorBody{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		}})
		return
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed", logging.Err(err))
	}
	c.AbortWithStatusJSON(status, Envelope{Error: &ErrorBody{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}})
}

// bindJSON decodes the request body into dst and writes a BadRequest on
// failure.
func bindJSON(c *gin.Context, logger logging.Logger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, logger, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

//Personal.AI order the ending
