package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"messana_bridge/internal/models"
	"messana_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockControl records every command as "Method device args".
type mockControl struct {
	err   error
	calls []string
	snap  *models.Snapshot
}

func (m *mockControl) record(format string, args ...any) error {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
	return m.err
}

func (m *mockControl) SetSystemPower(_ context.Context, device string, on bool) error {
	return m.record("SetSystemPower %s %t", device, on)
}
func (m *mockControl) SetHCMode(_ context.Context, device string, group int, mode models.HCMode) error {
	return m.record("SetHCMode %s %d %d", device, group, int(mode))
}
func (m *mockControl) SetZoneSetpoint(_ context.Context, device string, zone int, temperature float64) error {
	return m.record("SetZoneSetpoint %s %d %.1f", device, zone, temperature)
}
func (m *mockControl) SetZoneStatus(_ context.Context, device string, zone int, on bool) error {
	return m.record("SetZoneStatus %s %d %t", device, zone, on)
}
func (m *mockControl) DetachSchedule(_ context.Context, device string, zone int) error {
	return m.record("DetachSchedule %s %d", device, zone)
}
func (m *mockControl) SetClimateMode(_ context.Context, device string, mode models.ClimateMode) error {
	return m.record("SetClimateMode %s %s", device, mode)
}
func (m *mockControl) Refresh(_ context.Context, device string) (*models.Snapshot, error) {
	if err := m.record("Refresh %s", device); err != nil {
		return nil, err
	}
	return m.snap, nil
}

type mockMonitoring struct {
	mu       sync.Mutex
	views    map[string]service.SnapshotView
	err      error
	diag     service.Diagnostics
	statuses []service.Status
	ready    bool
}

func (m *mockMonitoring) setView(device string, v service.SnapshotView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.views == nil {
		m.views = make(map[string]service.SnapshotView)
	}
	m.views[device] = v
}

func (m *mockMonitoring) GetSnapshot(device string) (service.SnapshotView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return service.SnapshotView{}, m.err
	}
	v, ok := m.views[device]
	if !ok {
		return service.SnapshotView{}, service.ErrNoSnapshot
	}
	return v, nil
}

func (m *mockMonitoring) GetZone(device string, zone int) (models.Zone, error) {
	v, err := m.GetSnapshot(device)
	if err != nil {
		return models.Zone{}, err
	}
	z, ok := v.Snapshot.Zone(zone)
	if !ok {
		return models.Zone{}, service.ErrInvalidZone
	}
	return z, nil
}

func (m *mockMonitoring) Diagnostics(string) (service.Diagnostics, error) {
	return m.diag, m.err
}

func (m *mockMonitoring) Statuses() []service.Status { return m.statuses }

func (m *mockMonitoring) Ready() bool { return m.ready }

type mockEventLog struct {
	resp []models.Event
	err  error
	last service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.Event, error) {
	m.last = f
	return m.resp, m.err
}

type mockHistory struct {
	resp []models.ZoneReading
	err  error
	last service.HistoryFilter
}

func (m *mockHistory) List(_ context.Context, f service.HistoryFilter) ([]models.ZoneReading, error) {
	m.last = f
	return m.resp, m.err
}

// mockDevices is a registry whose subscribers are fed by publish.
type mockDevices struct {
	mu    sync.Mutex
	names []string
	subs  map[int]func(service.Update)
	next  int
}

func newMockDevices(names ...string) *mockDevices {
	sort.Strings(names)
	return &mockDevices{names: names, subs: make(map[int]func(service.Update))}
}

func (m *mockDevices) Device(name string) (*service.DeviceHandle, error) {
	for _, n := range m.names {
		if n == name {
			return &service.DeviceHandle{Name: name}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", service.ErrUnknownDevice, name)
}

func (m *mockDevices) Names() []string { return m.names }

func (m *mockDevices) Subscribe(fn func(service.Update)) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *mockDevices) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *mockDevices) publish(u service.Update) {
	m.mu.Lock()
	fns := make([]func(service.Update), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}

// ---- Shared Test Helpers ----

func ptr(v float64) *float64 { return &v }

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		System:   models.SystemState{PowerOn: true, TemperatureUnit: models.Celsius, ReportedZoneCount: 2, EffectiveZoneCount: 2},
		HCGroups: []models.HCGroup{{ID: 0, Mode: models.HCModeHeat}},
		Zones: []models.Zone{
			{ID: 0, Name: "Living", Temperature: ptr(21.5), Setpoint: ptr(21), PowerOn: true},
			{ID: 1, Name: "Bedroom", Temperature: ptr(19)},
		},
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{AuthEnabled: true})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
