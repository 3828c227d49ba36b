package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/messana"
	"messana_bridge/internal/models"
)

func ptr(v float64) *float64 { return &v }

// fakeDevice is an in-memory controller. Calls are recorded as "Method:arg".
type fakeDevice struct {
	mu sync.Mutex

	power     bool
	unit      models.TemperatureUnit
	zoneCount int
	groups    []models.HCGroup
	zones     map[int]models.Zone

	fail  map[string]error // keyed by "Method" or "Method:arg"
	calls []string

	// when gate is set, ZoneCount signals entered and waits for the gate or ctx
	gate    chan struct{}
	entered chan struct{}
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		power:     true,
		unit:      models.Celsius,
		zoneCount: 2,
		groups:    []models.HCGroup{{ID: 0, Mode: models.HCModeHeat}},
		zones: map[int]models.Zone{
			0: {Name: "Living", Temperature: ptr(21.5), Humidity: ptr(40), Setpoint: ptr(21), PowerOn: true, ThermalStatus: models.ThermalHeat, ScheduleOn: true},
			1: {Name: "Bedroom", Temperature: ptr(19)},
		},
		fail: make(map[string]error),
	}
}

func (f *fakeDevice) record(method string, arg ...int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method
	if len(arg) > 0 {
		key = fmt.Sprintf("%s:%d", method, arg[0])
	}
	f.calls = append(f.calls, key)
	if err, ok := f.fail[key]; ok {
		return err
	}
	if err, ok := f.fail[method]; ok {
		return err
	}
	return nil
}

func (f *fakeDevice) failOn(key string, err error) {
	f.mu.Lock()
	f.fail[key] = err
	f.mu.Unlock()
}

func (f *fakeDevice) heal() {
	f.mu.Lock()
	f.fail = make(map[string]error)
	f.mu.Unlock()
}

func (f *fakeDevice) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDevice) count(key string) int {
	n := 0
	for _, c := range f.callLog() {
		if c == key {
			n++
		}
	}
	return n
}

func (f *fakeDevice) block() {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 8)
	f.mu.Unlock()
}

func (f *fakeDevice) release() {
	f.mu.Lock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
	f.mu.Unlock()
}

func (f *fakeDevice) zone(id int) models.Zone {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zones[id]
}

func (f *fakeDevice) SystemPower(context.Context) (bool, error) {
	if err := f.record("SystemPower"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.power, nil
}

func (f *fakeDevice) TemperatureUnit(context.Context) (models.TemperatureUnit, error) {
	if err := f.record("TemperatureUnit"); err != nil {
		return "", err
	}
	return f.unit, nil
}

func (f *fakeDevice) ZoneCount(ctx context.Context) (int, error) {
	if err := f.record("ZoneCount"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zoneCount, nil
}

func (f *fakeDevice) HCGroupCount(context.Context) (int, error) {
	if err := f.record("HCGroupCount"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.groups), nil
}

func (f *fakeDevice) HCMode(_ context.Context, g int) (models.HCMode, error) {
	if err := f.record("HCMode", g); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[g].Mode, nil
}

func (f *fakeDevice) HCExecutiveSeason(_ context.Context, g int) (models.Season, error) {
	if err := f.record("HCExecutiveSeason", g); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[g].ExecutiveSeason, nil
}

func (f *fakeDevice) ZoneName(_ context.Context, z int) (string, error) {
	if err := f.record("ZoneName", z); err != nil {
		return "", err
	}
	if name := f.zone(z).Name; name != "" {
		return name, nil
	}
	return fmt.Sprintf("Zone %d", z), nil
}

func (f *fakeDevice) ZoneTemperature(_ context.Context, z int) (*float64, error) {
	if err := f.record("ZoneTemperature", z); err != nil {
		return nil, err
	}
	return f.zone(z).Temperature, nil
}

func (f *fakeDevice) ZoneHumidity(_ context.Context, z int) (*float64, error) {
	if err := f.record("ZoneHumidity", z); err != nil {
		return nil, err
	}
	return f.zone(z).Humidity, nil
}

func (f *fakeDevice) ZoneDewpoint(_ context.Context, z int) (*float64, error) {
	if err := f.record("ZoneDewpoint", z); err != nil {
		return nil, err
	}
	return f.zone(z).Dewpoint, nil
}

func (f *fakeDevice) ZoneSetpoint(_ context.Context, z int) (*float64, error) {
	if err := f.record("ZoneSetpoint", z); err != nil {
		return nil, err
	}
	return f.zone(z).Setpoint, nil
}

func (f *fakeDevice) ZoneStatus(_ context.Context, z int) (int, error) {
	if err := f.record("ZoneStatus", z); err != nil {
		return 0, err
	}
	if f.zone(z).PowerOn {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeDevice) ZoneThermalStatus(_ context.Context, z int) (models.ThermalStatus, error) {
	if err := f.record("ZoneThermalStatus", z); err != nil {
		return 0, err
	}
	return f.zone(z).ThermalStatus, nil
}

func (f *fakeDevice) ZoneScheduleOn(_ context.Context, z int) (bool, error) {
	if err := f.record("ZoneScheduleOn", z); err != nil {
		return false, err
	}
	return f.zone(z).ScheduleOn, nil
}

func (f *fakeDevice) ZoneScheduleStatus(_ context.Context, z int) (int, error) {
	if err := f.record("ZoneScheduleStatus", z); err != nil {
		return 0, err
	}
	return f.zone(z).ScheduleStatus, nil
}

func (f *fakeDevice) SetSystemPower(_ context.Context, on bool) error {
	if err := f.record("SetSystemPower", boolInt(on)); err != nil {
		return err
	}
	f.mu.Lock()
	f.power = on
	f.mu.Unlock()
	return nil
}

func (f *fakeDevice) SetHCMode(_ context.Context, g int, mode models.HCMode) error {
	if err := f.record("SetHCMode", g); err != nil {
		return err
	}
	f.mu.Lock()
	f.groups[g].Mode = mode
	f.mu.Unlock()
	return nil
}

func (f *fakeDevice) SetZoneSetpoint(_ context.Context, z int, temperature float64) error {
	if err := f.record("SetZoneSetpoint", z); err != nil {
		return err
	}
	f.mu.Lock()
	zone := f.zones[z]
	zone.Setpoint = ptr(temperature)
	f.zones[z] = zone
	f.mu.Unlock()
	return nil
}

func (f *fakeDevice) SetZoneStatus(_ context.Context, z int, on bool) error {
	if err := f.record("SetZoneStatus", z); err != nil {
		return err
	}
	f.mu.Lock()
	zone := f.zones[z]
	zone.PowerOn = on
	f.zones[z] = zone
	f.mu.Unlock()
	return nil
}

func (f *fakeDevice) SetZoneScheduleOn(_ context.Context, z int, on bool) (bool, error) {
	if err := f.record("SetZoneScheduleOn", z); err != nil {
		return false, err
	}
	f.mu.Lock()
	zone := f.zones[z]
	zone.ScheduleOn = on
	f.zones[z] = zone
	f.mu.Unlock()
	return on, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func authErr() error {
	return &messana.Error{Kind: messana.KindAuth, Method: "GET", Path: "/api/system/status", Status: 401}
}

func apiErr(msg string) error {
	return &messana.Error{Kind: messana.KindAPI, Method: "GET", Path: "/api/zone", Err: fmt.Errorf("%s", msg)}
}

// memEventRepo is an in-memory repository.EventRepo.
type memEventRepo struct {
	mu     sync.Mutex
	events []models.Event
	err    error

	gotFrom, gotTo     time.Time
	gotType, gotDevice string
}

func (m *memEventRepo) Append(_ context.Context, e models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memEventRepo) List(_ context.Context, from, to time.Time, typ, device string) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotFrom, m.gotTo, m.gotType, m.gotDevice = from, to, typ, device
	return append([]models.Event(nil), m.events...), m.err
}

func (m *memEventRepo) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func (m *memEventRepo) last() models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

// memReadingRepo is an in-memory repository.ReadingRepo.
type memReadingRepo struct {
	mu   sync.Mutex
	rows []models.ZoneReading
	err  error

	gotDevice string
	gotZone   int
	gotLimit  int
}

func (m *memReadingRepo) AppendBatch(_ context.Context, rows []models.ZoneReading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memReadingRepo) List(_ context.Context, device string, zone int, _, _ time.Time, limit int) ([]models.ZoneReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotDevice, m.gotZone, m.gotLimit = device, zone, limit
	return append([]models.ZoneReading(nil), m.rows...), m.err
}

// newFakeHub builds a hub whose devices are fakes, keyed by name.
func newFakeHub(devices map[string]*fakeDevice) *Hub {
	cfgs := make([]DeviceConfig, 0, len(devices))
	for name := range devices {
		cfgs = append(cfgs, DeviceConfig{Name: name, BaseURL: "http://" + name, APIKey: "k", PollInterval: time.Hour})
	}
	hub, err := NewHub(cfgs, func(cfg DeviceConfig, _ *logger.Logger) (Device, error) {
		return devices[cfg.Name], nil
	}, logger.Nop())
	if err != nil {
		panic(err)
	}
	return hub
}
