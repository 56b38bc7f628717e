package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope wraps all API responses in a consistent structure
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details for failed responses.
// Details carries per-field problems, e.g. the ids of unanswered questions.
type ErrorInfo struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	Retryable bool     `json:"retryable,omitempty"`
}

// OK sends a successful response with data
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
	})
}

// Created sends a 201 response for successfully created resources
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Data:    data,
	})
}

// Message sends a success response with just a message
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    gin.H{"message": message},
	})
}

// --- Error Responses ---

func errorResponse(c *gin.Context, status int, info *ErrorInfo) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   info,
	})
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, &ErrorInfo{Code: "BAD_REQUEST", Message: message})
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	errorResponse(c, http.StatusUnauthorized, &ErrorInfo{Code: "UNAUTHORIZED", Message: message})
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	errorResponse(c, http.StatusNotFound, &ErrorInfo{Code: "NOT_FOUND", Message: message})
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	errorResponse(c, http.StatusConflict, &ErrorInfo{Code: "CONFLICT", Message: message})
}

// ValidationError sends a 422 response for validation failures
func ValidationError(c *gin.Context, message string, details ...string) {
	errorResponse(c, http.StatusUnprocessableEntity, &ErrorInfo{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "rate limit exceeded, please try again later"
	}
	errorResponse(c, http.StatusTooManyRequests, &ErrorInfo{Code: "RATE_LIMIT_EXCEEDED", Message: message, Retryable: true})
}

// InternalError sends a 500 response.
// Never pass internal error details here.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	errorResponse(c, http.StatusInternalServerError, &ErrorInfo{Code: "INTERNAL_ERROR", Message: message, Retryable: true})
}

// BadGateway sends a 502 response for upstream failures
func BadGateway(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadGateway, &ErrorInfo{Code: "UPSTREAM_ERROR", Message: message, Retryable: true})
}

// ServiceUnavailable sends a 503 response; the client may retry
func ServiceUnavailable(c *gin.Context, message string) {
	errorResponse(c, http.StatusServiceUnavailable, &ErrorInfo{Code: "UNAVAILABLE", Message: message, Retryable: true})
}
