package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/service"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, 401, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *gin.Context, message string) {
	Error(c, 409, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}

// FromError maps a domain error to its HTTP status
func FromError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAlertNotFound),
		errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrNotTracking):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrAlertAlreadyResponded),
		errors.Is(err, service.ErrAlertTerminal),
		errors.Is(err, service.ErrReportClosed):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrSessionExpired):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrFixTimeout),
		errors.Is(err, service.ErrUnsupported):
		Error(c, 503, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
