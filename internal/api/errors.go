package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arc-framework/seeder/internal/seeding"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Status     string `json:"status" example:"error"`
	Message    string `json:"message" example:"Invalid admin secret"`
	StatusCode int    `json:"status_code" example:"401"`
}

// MsgInvalidBody is returned when a request body cannot be decoded or fails
// validation. Validator output stays in the logs.
const MsgInvalidBody = "Invalid request body"

// statusFor maps a seeding error kind onto an HTTP status code.
func statusFor(kind seeding.Kind) int {
	switch kind {
	case seeding.KindBadRequest:
		return http.StatusBadRequest
	case seeding.KindConflict:
		return http.StatusConflict
	case seeding.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Status:     "error",
		Message:    message,
		StatusCode: code,
	})
}

// abortWithBindError reports a body decoding or validation failure with a
// fixed message; the detail is attached to the gin context for logging.
func abortWithBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	abortWithError(c, http.StatusBadRequest, MsgInvalidBody)
}

// abortWithServiceError writes err using its seeding kind and client-safe
// message. The underlying cause is attached to the gin context for logging.
func abortWithServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	abortWithError(c, statusFor(seeding.KindOf(err)), seeding.MessageOf(err))
}
