package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain"
	"eventadmin/internal/http/middleware"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"error": message,
		"code":  code,
	}
	if details != nil {
		payload["details"] = details
	}
	if reqID := middleware.GetRequestID(c); reqID != "" {
		payload["request_id"] = reqID
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. The generic 500
// hides storage details from the caller.
func RespondDomainError(c *gin.Context, err error) {
	RespondDomainErrorDetails(c, err, nil)
}

// RespondDomainErrorDetails allows attaching a details payload, e.g. the
// conflicting bookings on a 409.
func RespondDomainErrorDetails(c *gin.Context, err error, details any) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), details)
	case domain.IsPermission(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), details)
	case domain.IsPrecondition(err):
		respondError(c, http.StatusPreconditionFailed, "precondition_failed", err.Error(), details)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), details)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
