package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/messana"
	"messana_bridge/internal/models"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultPollInterval = 30 * time.Second
	cycleKey            = "refresh"
)

// Update is delivered to subscribers after every cycle. On failure Snapshot is
// the retained one (possibly nil) and Err is set.
type Update struct {
	Device   string
	Snapshot *models.Snapshot
	Err      error
	At       time.Time
}

// Status summarizes the coordinator's cycle history.
type Status struct {
	Device      string    `json:"device"`
	LastAttempt time.Time `json:"last_attempt"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
	Cycles      int       `json:"cycles"`
	Failures    int       `json:"failures"`
	Stale       bool      `json:"stale"`
}

// CycleObserver is told about every completed cycle.
type CycleObserver interface {
	ObserveCycle(device string, took time.Duration, err error)
}

// CoordinatorConfig is fixed at construction.
type CoordinatorConfig struct {
	Device            string
	PollInterval      time.Duration
	ZoneCountOverride int
}

// Coordinator polls one controller and publishes immutable snapshots.
// At most one cycle runs at a time; concurrent Refresh calls join it.
type Coordinator struct {
	device   string
	api      DeviceReader
	interval time.Duration
	override int
	log      *logger.Logger
	observer CycleObserver
	now      func() time.Time

	flight   singleflight.Group
	life     context.Context
	shutdown context.CancelFunc

	mu       sync.RWMutex
	snapshot *models.Snapshot
	lastErr  error
	status   Status

	subMu   sync.Mutex
	subs    map[int]func(Update)
	nextSub int
}

// NewCoordinator builds a coordinator. A nil log discards output.
func NewCoordinator(cfg CoordinatorConfig, api DeviceReader, log *logger.Logger) *Coordinator {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	override := cfg.ZoneCountOverride
	if override < 0 {
		override = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	life, shutdown := context.WithCancel(context.Background())
	return &Coordinator{
		device:   cfg.Device,
		api:      api,
		interval: interval,
		override: override,
		log:      log,
		now:      time.Now,
		life:     life,
		shutdown: shutdown,
		status:   Status{Device: cfg.Device, Stale: true},
		subs:     make(map[int]func(Update)),
	}
}

// SetObserver installs the cycle observer. Call before Run.
func (c *Coordinator) SetObserver(o CycleObserver) { c.observer = o }

func (c *Coordinator) Device() string { return c.device }

func (c *Coordinator) Interval() time.Duration { return c.interval }

// Snapshot returns the latest published snapshot, nil before the first success.
func (c *Coordinator) Snapshot() *models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// LastError returns the error of the most recent cycle, nil if it succeeded.
func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Subscribe registers fn for every cycle outcome and returns its cancel func.
// fn runs on the cycle's goroutine and must not block for long.
func (c *Coordinator) Subscribe(fn func(Update)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Refresh runs a cycle, or joins the one in flight, and returns its snapshot.
// ctx only bounds how long the caller waits; the cycle itself runs until done
// or until Close.
func (c *Coordinator) Refresh(ctx context.Context) (*models.Snapshot, error) {
	if err := c.life.Err(); err != nil {
		return nil, fmt.Errorf("coordinator %s closed: %w", c.device, err)
	}
	ch := c.flight.DoChan(cycleKey, func() (any, error) {
		return c.cycle()
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run refreshes on every tick until ctx is canceled or Close is called.
// Failures are retried on the next tick only.
func (c *Coordinator) Run(ctx context.Context) {
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.life.Done():
			return
		case <-t.C:
			_, _ = c.Refresh(ctx)
		}
	}
}

// Close stops the timer loop and abandons an in-flight cycle. The retained
// snapshot is left untouched.
func (c *Coordinator) Close() {
	c.shutdown()
}

func (c *Coordinator) cycle() (*models.Snapshot, error) {
	ctx := c.life
	start := c.now()
	snap, err := c.build(ctx)
	took := c.now().Sub(start)

	if ctx.Err() != nil {
		// abandoned by Close: nothing is recorded or published
		if err == nil {
			err = ctx.Err()
		}
		return nil, err
	}

	c.mu.Lock()
	c.status.Cycles++
	c.status.LastAttempt = start
	if err == nil {
		c.snapshot = snap
		c.lastErr = nil
		c.status.LastSuccess = snap.FetchedAt
		c.status.LastError = ""
		c.status.Stale = false
	} else {
		c.lastErr = err
		c.status.Failures++
		c.status.LastError = err.Error()
		c.status.Stale = true
	}
	retained := c.snapshot
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.ObserveCycle(c.device, took, err)
	}

	if err != nil {
		kind, _ := messana.KindOf(err)
		c.log.Warnw("refresh_failed", "device", c.device, "kind", kind.String(), "took", took, "err", err)
	} else {
		c.log.Debugw("refresh_done",
			"device", c.device,
			"system_power", snap.System.PowerOn,
			"temperature_unit", snap.System.TemperatureUnit,
			"reported_zone_count", snap.System.ReportedZoneCount,
			"effective_zone_count", snap.System.EffectiveZoneCount,
			"hc_groups", len(snap.HCGroups),
			"zones", len(snap.Zones),
			"took", took,
		)
	}

	c.publish(Update{Device: c.device, Snapshot: retained, Err: err, At: c.now()})
	return snap, err
}

func (c *Coordinator) publish(u Update) {
	c.subMu.Lock()
	fns := make([]func(Update), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

// build issues every call of one cycle sequentially. Counts gate the loops,
// so they are fetched first. Any error aborts the whole cycle.
func (c *Coordinator) build(ctx context.Context) (*models.Snapshot, error) {
	power, err := c.api.SystemPower(ctx)
	if err != nil {
		return nil, fmt.Errorf("system power: %w", err)
	}
	unit, err := c.api.TemperatureUnit(ctx)
	if err != nil {
		return nil, fmt.Errorf("temperature unit: %w", err)
	}
	reported, err := c.api.ZoneCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("zone count: %w", err)
	}
	groupCount, err := c.api.HCGroupCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("h/c group count: %w", err)
	}

	// counts come from the device; slices grow with successful reads only
	groups := []models.HCGroup{}
	for g := 0; g < groupCount; g++ {
		mode, err := c.api.HCMode(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("h/c group %d mode: %w", g, err)
		}
		season, err := c.api.HCExecutiveSeason(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("h/c group %d season: %w", g, err)
		}
		groups = append(groups, models.HCGroup{ID: g, Mode: mode, ExecutiveSeason: season})
	}

	effective := models.EffectiveZoneCount(c.override, reported)
	zones := []models.Zone{}
	for z := 0; z < effective; z++ {
		zone, err := c.fetchZone(ctx, z)
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", z, err)
		}
		zones = append(zones, zone)
	}

	return &models.Snapshot{
		System: models.SystemState{
			PowerOn:            power,
			TemperatureUnit:    unit,
			ReportedZoneCount:  reported,
			EffectiveZoneCount: effective,
		},
		HCGroups:  groups,
		Zones:     zones,
		FetchedAt: c.now().UTC(),
	}, nil
}

func (c *Coordinator) fetchZone(ctx context.Context, id int) (models.Zone, error) {
	z := models.Zone{ID: id}
	var err error

	if z.Name, err = c.api.ZoneName(ctx, id); err != nil {
		return z, fmt.Errorf("name: %w", err)
	}
	if z.Temperature, err = c.api.ZoneTemperature(ctx, id); err != nil {
		return z, fmt.Errorf("temperature: %w", err)
	}
	if z.Humidity, err = c.api.ZoneHumidity(ctx, id); err != nil {
		return z, fmt.Errorf("humidity: %w", err)
	}
	if z.Dewpoint, err = c.api.ZoneDewpoint(ctx, id); err != nil {
		return z, fmt.Errorf("dewpoint: %w", err)
	}
	if z.Setpoint, err = c.api.ZoneSetpoint(ctx, id); err != nil {
		return z, fmt.Errorf("setpoint: %w", err)
	}
	status, err := c.api.ZoneStatus(ctx, id)
	if err != nil {
		return z, fmt.Errorf("status: %w", err)
	}
	z.PowerOn = status != 0
	if z.ThermalStatus, err = c.api.ZoneThermalStatus(ctx, id); err != nil {
		return z, fmt.Errorf("thermal status: %w", err)
	}
	if z.ScheduleOn, err = c.api.ZoneScheduleOn(ctx, id); err != nil {
		return z, fmt.Errorf("schedule on: %w", err)
	}
	if z.ScheduleStatus, err = c.api.ZoneScheduleStatus(ctx, id); err != nil {
		return z, fmt.Errorf("schedule status: %w", err)
	}
	return z, nil
}
