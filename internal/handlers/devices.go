package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Description  200 once every configured device has published a snapshot, 503 otherwise.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	if h.services.Monitoring == nil {
		c.JSON(http.StatusOK, gin.H{"status": statusOK})
		return
	}
	resp := gin.H{"status": statusOK, "devices": h.services.Statuses()}
	if !h.services.Ready() {
		resp["status"] = statusDegraded
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      List devices with their refresh status
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	st := h.services.Statuses()
	c.JSON(http.StatusOK, gin.H{"count": len(st), "devices": st})
}

// @Summary      Latest snapshot of a device
// @Description  Serves the retained snapshot; stale is true when the last cycle failed.
// @Tags         devices
// @Produce      json
// @Param        device  path      string  true  "Device name"
// @Success      200     {object}  service.SnapshotView
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/v1/devices/{device}/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	device := c.Param("device")
	view, err := h.services.GetSnapshot(device)
	if err != nil {
		h.respondError(c, "get_snapshot_failed", err, "device", device)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Diagnostics readout
// @Description  System block plus zone 0 readings.
// @Tags         devices
// @Produce      json
// @Param        device  path      string  true  "Device name"
// @Success      200     {object}  service.Diagnostics
// @Failure      404     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/v1/devices/{device}/diagnostics [get]
// @Security     BearerAuth
func (h *Handler) getDiagnostics(c *gin.Context) {
	device := c.Param("device")
	diag, err := h.services.Diagnostics(device)
	if err != nil {
		h.respondError(c, "get_diagnostics_failed", err, "device", device)
		return
	}
	c.JSON(http.StatusOK, diag)
}

// @Summary      One zone of the latest snapshot
// @Description  404 means the zone index is beyond the effective zone count.
// @Tags         zones
// @Produce      json
// @Param        device  path      string  true  "Device name"
// @Param        zone    path      int     true  "Zone index"
// @Success      200     {object}  models.Zone
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/devices/{device}/zones/{zone} [get]
// @Security     BearerAuth
func (h *Handler) getZone(c *gin.Context) {
	device := c.Param("device")
	zone, ok := indexParam(c, "zone")
	if !ok {
		return
	}
	z, err := h.services.GetZone(device, zone)
	if err != nil {
		h.respondError(c, "get_zone_failed", err, "device", device, "zone", zone)
		return
	}
	c.JSON(http.StatusOK, z)
}

// @Summary      Refresh now
// @Description  Runs a refresh cycle, or joins the one in flight, and returns the new snapshot.
// @Tags         devices
// @Produce      json
// @Param        device  path      string  true  "Device name"
// @Success      200     {object}  models.Snapshot
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /api/v1/devices/{device}/refresh [post]
// @Security     BearerAuth
func (h *Handler) refresh(c *gin.Context) {
	device := c.Param("device")
	snap, err := h.services.Refresh(c.Request.Context(), device)
	if err != nil {
		h.respondError(c, "refresh_failed", err, "device", device)
		return
	}
	c.JSON(http.StatusOK, snap)
}
