package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"messana_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimitInvalid = "invalid 'limit'; use a positive integer"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseRange reads the optional from/to query pair. A date-only 'to' is the
// end of that day, inclusive. Writes a 400 and returns false on bad input.
func parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return from, to, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return from, to, false
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return from, to, false
	}
	return from, to, true
}

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and device. A date-only 'to' is treated as end-of-day inclusive.
// @Tags         logs
// @Produce      json
// @Param        from    query     string  false  "Start of range"  example(2026-08-01)
// @Param        to      query     string  false  "End of range. Date-only treated as end of day."  example(2026-08-31)
// @Param        type    query     string  false  "Event type"  Enums(SETUP,REFRESH_FAILED,AUTH_FAILED,COMMAND,COMMAND_FAILED)
// @Param        device  query     string  false  "Device name"
// @Success      200     {object}  map[string]interface{}  "count, events"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	eventType := strings.ToUpper(strings.TrimSpace(c.Query("type")))
	device := strings.TrimSpace(c.Query("device"))

	events, err := h.services.EventLog.List(c.Request.Context(), service.LogFilter{
		From:   from,
		To:     to,
		Type:   eventType,
		Device: device,
	})
	if err != nil {
		if service.IsInvalidRange(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"from", from, "to", to, "type", eventType, "device", device)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      Zone reading history
// @Description  Readings recorded after each successful refresh, newest first.
// @Tags         zones
// @Produce      json
// @Param        device  path      string  true   "Device name"
// @Param        zone    path      int     true   "Zone index"
// @Param        from    query     string  false  "Start of range"
// @Param        to      query     string  false  "End of range"
// @Param        limit   query     int     false  "Maximum rows"  default(500)
// @Success      200     {object}  map[string]interface{}  "count, readings"
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/devices/{device}/zones/{zone}/history [get]
// @Security     BearerAuth
func (h *Handler) getZoneHistory(c *gin.Context) {
	zone, ok := indexParam(c, "zone")
	if !ok {
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		limit = v
	}

	device := c.Param("device")
	readings, err := h.services.History.List(c.Request.Context(), service.HistoryFilter{
		Device: device,
		Zone:   zone,
		From:   from,
		To:     to,
		Limit:  limit,
	})
	if err != nil {
		h.respondError(c, "history_list_failed", err, "device", device, "zone", zone)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
