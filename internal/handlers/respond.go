package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"messana_bridge/internal/messana"
	"messana_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusApplied  = "applied"

	errInvalidBodyPref = "invalid body: "
	errEntityUnavail   = "entity unavailable"
	errDeviceFailure   = "device request failed"
	errInternal        = "internal error"
	errInvalidIndex    = "index must be an integer"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError maps service and device errors onto HTTP statuses.
//
//	unknown device, missing zone or group -> 404
//	no snapshot yet                       -> 503
//	invalid mode, value or time range     -> 400
//	device failure                        -> 502 with the failure kind
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrUnknownDevice):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidZone), errors.Is(err, service.ErrInvalidGroup):
		c.JSON(http.StatusNotFound, gin.H{"error": errEntityUnavail, "detail": err.Error()})
	case errors.Is(err, service.ErrNoSnapshot):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidMode), errors.Is(err, service.ErrInvalidValue), service.IsInvalidRange(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if kind, ok := messana.KindOf(err); ok {
			if h.log != nil {
				h.log.Warnw(logKey, append([]interface{}{"err", err, "kind", kind.String()}, kv...)...)
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": errDeviceFailure, "kind": kind.String(), "detail": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// indexParam reads an integer path parameter and answers 400 when it is not
// one. Range checks belong to the services.
func indexParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " " + errInvalidIndex})
		return 0, false
	}
	return v, true
}
