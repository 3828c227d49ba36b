package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/messana"
)

// DeviceConfig describes one configured controller.
type DeviceConfig struct {
	Name              string
	BaseURL           string
	APIKey            string
	PollInterval      time.Duration
	ZoneCountOverride int
	Timeout           time.Duration
}

// DeviceFactory builds the client for one configured controller.
type DeviceFactory func(cfg DeviceConfig, log *logger.Logger) (Device, error)

// MessanaFactory builds real HTTP clients.
func MessanaFactory(cfg DeviceConfig, log *logger.Logger) (Device, error) {
	client, err := messana.NewClient(messana.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DeviceHandle pairs a controller client with its coordinator.
type DeviceHandle struct {
	Name        string
	Client      Device
	Coordinator *Coordinator
}

// Registry resolves configured devices by name.
type Registry interface {
	Device(name string) (*DeviceHandle, error)
	Names() []string
}

// Hub owns one client and one coordinator per device. Devices are independent:
// a failing controller never blocks or stalls another.
type Hub struct {
	log     *logger.Logger
	order   []string
	devices map[string]*DeviceHandle

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Registry = (*Hub)(nil)

func NewHub(cfgs []DeviceConfig, factory DeviceFactory, log *logger.Logger) (*Hub, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("no devices configured")
	}
	if factory == nil {
		factory = MessanaFactory
	}
	if log == nil {
		log = logger.Nop()
	}

	h := &Hub{log: log, devices: make(map[string]*DeviceHandle, len(cfgs))}
	for _, cfg := range cfgs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, errors.New("device name is required")
		}
		if _, dup := h.devices[name]; dup {
			return nil, fmt.Errorf("duplicate device name %q", name)
		}
		devLog := log.With("device", name)
		client, err := factory(cfg, devLog)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", name, err)
		}
		coord := NewCoordinator(CoordinatorConfig{
			Device:            name,
			PollInterval:      cfg.PollInterval,
			ZoneCountOverride: cfg.ZoneCountOverride,
		}, client, devLog)
		h.devices[name] = &DeviceHandle{Name: name, Client: client, Coordinator: coord}
		h.order = append(h.order, name)
	}
	return h, nil
}

// Setup performs the synchronous first refresh of every device. The first
// failure aborts setup with a *SetupError.
func (h *Hub) Setup(ctx context.Context) error {
	for _, name := range h.order {
		d := h.devices[name]
		if _, err := d.Coordinator.Refresh(ctx); err != nil {
			class := ClassifySetupError(err)
			h.log.Errorw("setup_failed", "device", name, "class", class, "err", err)
			return &SetupError{Device: name, Class: class, Err: err}
		}
		snap := d.Coordinator.Snapshot()
		h.log.Infow("device_ready", "device", name,
			"zones", len(snap.Zones), "hc_groups", len(snap.HCGroups),
			"poll_interval", d.Coordinator.Interval())
	}
	return nil
}

// Start launches every coordinator's timer loop.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}
	ctx, h.cancel = context.WithCancel(ctx)
	for _, name := range h.order {
		coord := h.devices[name].Coordinator
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			coord.Run(ctx)
		}()
	}
}

// Stop ends all timer loops and abandons in-flight cycles.
func (h *Hub) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, d := range h.devices {
		d.Coordinator.Close()
	}
	h.wg.Wait()
}

func (h *Hub) Device(name string) (*DeviceHandle, error) {
	d, ok := h.devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	return d, nil
}

// Names returns device names sorted alphabetically.
func (h *Hub) Names() []string {
	out := append([]string(nil), h.order...)
	sort.Strings(out)
	return out
}

// Subscribe registers fn on every coordinator.
func (h *Hub) Subscribe(fn func(Update)) (cancel func()) {
	cancels := make([]func(), 0, len(h.devices))
	for _, name := range h.order {
		cancels = append(cancels, h.devices[name].Coordinator.Subscribe(fn))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// SetObserver installs o on every coordinator.
func (h *Hub) SetObserver(o CycleObserver) {
	for _, d := range h.devices {
		d.Coordinator.SetObserver(o)
	}
}
