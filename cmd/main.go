package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "messana_bridge/docs"
	"messana_bridge/internal/config"
	"messana_bridge/internal/handlers"
	"messana_bridge/internal/logger"
	"messana_bridge/internal/publisher"
	"messana_bridge/internal/repository"
	"messana_bridge/internal/repository/db"
	"messana_bridge/internal/server"
	"messana_bridge/internal/service"
)

const (
	setupTimeout    = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// @title                       Messana bridge API
// @version                     1.0
// @description                 Snapshot reads and commands for Messana radiant controllers.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config; the level is only known afterwards
	cfg, err := config.Load("")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()
	repos := repository.NewRepository(conn)

	// one client and coordinator per device
	hub, err := service.NewHub(cfg.DeviceConfigs(), service.MessanaFactory, log)
	if err != nil {
		log.Fatalw("invalid device configuration", "err", err)
	}
	metrics := service.NewMetricsCollector(hub)
	hub.SetObserver(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// subscribed before setup so the first readings reach history
	recorder := service.NewRecorder(repos.EventRepo, repos.ReadingRepo, log)
	stopRecording := hub.Subscribe(recorder.Observe)
	defer stopRecording()

	// first refresh of every device; any failure is fatal
	setupCtx, setupCancel := context.WithTimeout(ctx, setupTimeout)
	err = hub.Setup(setupCtx)
	setupCancel()
	if err != nil {
		var se *service.SetupError
		if errors.As(err, &se) {
			log.Fatalw("device setup failed", "device", se.Device, "class", se.Class, "err", se.Err)
		}
		log.Fatalw("device setup failed", "err", err)
	}

	for _, name := range hub.Names() {
		d, _ := hub.Device(name)
		recorder.RecordSetup(ctx, name, d.Coordinator.Snapshot())
	}
	go recorder.Run(ctx)

	services := service.NewService(repos, hub, service.AuthConfig{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	}, log)

	hub.Start(ctx)

	// start HTTP server
	registry := server.MetricsRegistry(metrics)
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AuthEnabled: cfg.Auth.Enabled,
		Metrics:     server.MetricsHandler(registry),
	})
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// optional MQTT bridge
	var mqttBridge *publisher.Bridge
	if cfg.MQTT.Enabled() {
		mqttBridge = publisher.New(publisher.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
		}, services, log)
		if err := mqttBridge.Start(); err != nil {
			log.Errorw("mqtt connect failed; retrying in background", "broker", cfg.MQTT.Broker, "err", err)
		}
	}

	log.Infow("bridge started", "port", cfg.Port, "devices", hub.Names(), "auth", cfg.Auth.Enabled, "mqtt", cfg.MQTT.Enabled())

	// graceful shutdown
	waitForShutdown(cancel, srv, hub, mqttBridge, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", config.DefaultDBPath)
		path = config.DefaultDBPath
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = config.DefaultPort
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, hub *service.Hub, mqttBridge *publisher.Bridge, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down bridge...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	if mqttBridge != nil {
		mqttBridge.Stop()
	}

	// stop polling, then the recorder
	hub.Stop()
	cancel()
}
