package handlers

import (
	"net/http"

	"messana_bridge/internal/models"

	"github.com/gin-gonic/gin"
)

// PowerRequest switches something on or off.
type PowerRequest struct {
	On *bool `json:"on" binding:"required" example:"true"`
}

// ClimateModeRequest sets the combined mode: off, heat, cool or heat_cool.
type ClimateModeRequest struct {
	Mode string `json:"mode" binding:"required" example:"heat_cool"`
}

// HCModeRequest sets an H/C group mode: heat, cool, auto or 0, 1, 2.
type HCModeRequest struct {
	Mode string `json:"mode" binding:"required" example:"cool"`
}

// SetpointRequest sets a zone target temperature in the controller unit.
type SetpointRequest struct {
	Temperature *float64 `json:"temperature" binding:"required" example:"21.5"`
}

// respondApplied answers a successful command with the refreshed snapshot when
// one is available.
func (h *Handler) respondApplied(c *gin.Context, device string, extra gin.H) {
	resp := gin.H{"status": statusApplied}
	for k, v := range extra {
		resp[k] = v
	}
	if view, err := h.services.GetSnapshot(device); err == nil {
		resp["snapshot"] = view
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      System power
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        device  path      string        true  "Device name"
// @Param        body    body      PowerRequest  true  "Power payload"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/system/power [put]
// @Security     BearerAuth
func (h *Handler) setSystemPower(c *gin.Context) {
	var req PowerRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	device := c.Param("device")
	if err := h.services.SetSystemPower(c.Request.Context(), device, *req.On); err != nil {
		h.respondError(c, "set_system_power_failed", err, "device", device)
		return
	}
	h.respondApplied(c, device, gin.H{"on": *req.On})
}

// @Summary      Climate mode
// @Description  off switches the controller off; heat, cool and heat_cool switch it on and set H/C group 0.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        device  path      string              true  "Device name"
// @Param        body    body      ClimateModeRequest  true  "Mode payload"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/climate/mode [put]
// @Security     BearerAuth
func (h *Handler) setClimateMode(c *gin.Context) {
	var req ClimateModeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	mode, err := models.ParseClimateMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device := c.Param("device")
	if err := h.services.SetClimateMode(c.Request.Context(), device, mode); err != nil {
		h.respondError(c, "set_climate_mode_failed", err, "device", device, "mode", mode)
		return
	}
	h.respondApplied(c, device, gin.H{"mode": mode})
}

// @Summary      H/C group mode
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        device  path      string         true  "Device name"
// @Param        group   path      int            true  "H/C group index"
// @Param        body    body      HCModeRequest  true  "Mode payload"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/hc-groups/{group}/mode [put]
// @Security     BearerAuth
func (h *Handler) setHCMode(c *gin.Context) {
	group, ok := indexParam(c, "group")
	if !ok {
		return
	}
	var req HCModeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	mode, err := models.ParseHCMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device := c.Param("device")
	if err := h.services.SetHCMode(c.Request.Context(), device, group, mode); err != nil {
		h.respondError(c, "set_hc_mode_failed", err, "device", device, "group", group)
		return
	}
	h.respondApplied(c, device, gin.H{"group": group, "mode": mode})
}

// @Summary      Zone setpoint
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        device  path      string           true  "Device name"
// @Param        zone    path      int              true  "Zone index"
// @Param        body    body      SetpointRequest  true  "Setpoint payload"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/zones/{zone}/setpoint [put]
// @Security     BearerAuth
func (h *Handler) setZoneSetpoint(c *gin.Context) {
	zone, ok := indexParam(c, "zone")
	if !ok {
		return
	}
	var req SetpointRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	device := c.Param("device")
	if err := h.services.SetZoneSetpoint(c.Request.Context(), device, zone, *req.Temperature); err != nil {
		h.respondError(c, "set_zone_setpoint_failed", err, "device", device, "zone", zone)
		return
	}
	h.respondApplied(c, device, gin.H{"zone": zone, "temperature": *req.Temperature})
}

// @Summary      Zone power
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        device  path      string        true  "Device name"
// @Param        zone    path      int           true  "Zone index"
// @Param        body    body      PowerRequest  true  "Power payload"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/zones/{zone}/power [put]
// @Security     BearerAuth
func (h *Handler) setZonePower(c *gin.Context) {
	zone, ok := indexParam(c, "zone")
	if !ok {
		return
	}
	var req PowerRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	device := c.Param("device")
	if err := h.services.SetZoneStatus(c.Request.Context(), device, zone, *req.On); err != nil {
		h.respondError(c, "set_zone_power_failed", err, "device", device, "zone", zone)
		return
	}
	h.respondApplied(c, device, gin.H{"zone": zone, "on": *req.On})
}

// @Summary      Detach zone from its schedule
// @Tags         commands
// @Produce      json
// @Param        device  path      string  true  "Device name"
// @Param        zone    path      int     true  "Zone index"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/zones/{zone}/detach-schedule [post]
// @Security     BearerAuth
func (h *Handler) detachSchedule(c *gin.Context) {
	zone, ok := indexParam(c, "zone")
	if !ok {
		return
	}
	device := c.Param("device")
	if err := h.services.DetachSchedule(c.Request.Context(), device, zone); err != nil {
		h.respondError(c, "detach_schedule_failed", err, "device", device, "zone", zone)
		return
	}
	h.respondApplied(c, device, gin.H{"zone": zone})
}
