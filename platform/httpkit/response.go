// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"math"
	"net/http"
	"strconv"

	"clientregistry/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends a failure envelope with the given status, error code and message.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Success: false, Error: code, Message: message})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values use their Kind for status and code; anything
// else is reported as an internal error without exposing its text.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	domainErr, ok := apperr.As(err)
	if !ok {
		Error(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return true
	}

	if domainErr.Retryable && domainErr.RetryAfter > 0 {
		seconds := int(math.Ceil(domainErr.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	Error(c, domainErr.HTTPStatus(), domainErr.Code(), domainErr.Message)
	return true
}
