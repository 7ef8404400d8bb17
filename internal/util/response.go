package util

import (
	"net/http"

	"github.com/bbyte-app/backend/internal/errors"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	if log := logger.Log; log != nil {
		if apiErr.Status >= http.StatusInternalServerError {
			log.Error("API error",
				zap.String("code", string(apiErr.Code)),
				zap.String("message", apiErr.Message),
				zap.String("details", apiErr.Details),
				zap.Int("status", apiErr.Status),
			)
		} else if apiErr.Status >= http.StatusBadRequest {
			log.Warn("API error",
				zap.String("code", string(apiErr.Code)),
				zap.String("message", apiErr.Message),
				zap.String("field", apiErr.Field),
			)
		}
	}

	c.JSON(apiErr.Status, ErrorResponse{
		Code:    string(apiErr.Code),
		Message: apiErr.Message,
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "user not authenticated"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthorized(msg))
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

// RespondForbidden sends a 403 Forbidden response
func RespondForbidden(c *gin.Context, message ...string) {
	msg := "forbidden"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Forbidden(msg))
}

// RespondValidationError sends a 422 Unprocessable Entity response
func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}

// RespondInternalError sends a 500 Internal Server Error response. The
// underlying error message is included in the details field: acceptable for
// this system's trust model, though it does leak internal detail.
func RespondInternalError(c *gin.Context, message string, err error) {
	apiErr := errors.InternalError(message)
	if err != nil {
		apiErr = apiErr.WithDetails(err.Error())
	}
	RespondWithAPIError(c, apiErr)
}

// RespondUploadError sends a 422 response for failed upload/transaction
// paths, carrying the underlying error message.
func RespondUploadError(c *gin.Context, message string, err error) {
	apiErr := errors.ValidationError("", message)
	if err != nil {
		apiErr = apiErr.WithDetails(err.Error())
	}
	RespondWithAPIError(c, apiErr)
}
