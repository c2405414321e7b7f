package controllers

import (
	"net/http"

	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to its HTTP status code
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindInvalidPath, services.KindInvalidRequest, services.KindUnknownLocation:
		return http.StatusBadRequest
	case services.KindAccessDenied:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindAlreadyExists, services.KindConflict, services.KindCrossVolume:
		return http.StatusConflict
	case services.KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the {error, code} payload for err
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	_ = c.Error(err)
	c.JSON(statusFor(kind), gin.H{
		"error": err.Error(),
		"code":  string(kind),
	})
}

// respondBindError reports a malformed request body or query
func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "invalid request: " + err.Error(),
		"code":  string(services.KindInvalidRequest),
	})
}
