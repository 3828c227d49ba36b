package handlers

import (
	"net/http"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options toggles optional parts of the router.
type Options struct {
	// AuthEnabled protects /api/v1 with bearer tokens.
	AuthEnabled bool
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.opts.Metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// snapshot push stream, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	if h.opts.AuthEnabled {
		api.Use(h.userIdMiddleware)
	}
	{
		h.registerDeviceRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	api.GET("/devices", h.listDevices)

	device := api.Group("/devices/:device")
	{
		device.GET("/snapshot", h.getSnapshot)
		device.GET("/diagnostics", h.getDiagnostics)
		device.POST("/refresh", h.refresh)

		device.PUT("/system/power", h.setSystemPower)
		// Body example: {"mode":"heat_cool"}
		device.PUT("/climate/mode", h.setClimateMode)
		device.PUT("/hc-groups/:group/mode", h.setHCMode)

		device.GET("/zones/:zone", h.getZone)
		device.GET("/zones/:zone/history", h.getZoneHistory)
		device.PUT("/zones/:zone/setpoint", h.setZoneSetpoint)
		device.PUT("/zones/:zone/power", h.setZonePower)
		device.POST("/zones/:zone/detach-schedule", h.detachSchedule)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}
