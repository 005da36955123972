package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/domain"
	"eventadmin/internal/http/middleware"
)

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload", gin.H{"bind": err.Error()})
		return false
	}
	return true
}

// CallerOrAbort pulls the authenticated identity; missing means the route
// was mounted without Auth, which is a wiring bug, not a client error.
func CallerOrAbort(c *gin.Context) (domain.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "no authenticated caller", nil)
		return domain.Caller{}, false
	}
	return caller, true
}

// IDParam parses the :id (or named) route param as int64.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
