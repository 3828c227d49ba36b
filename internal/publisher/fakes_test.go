package publisher

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"messana_bridge/internal/models"
	"messana_bridge/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ---- paho fakes ----

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	retained bool
	payload  string
}

type fakeConn struct {
	mu           sync.Mutex
	gate         chan struct{} // when set, Publish waits for it to close
	connectErr   error
	publishErr   error
	pubs         []published
	handlers     map[string]mqtt.MessageHandler
	disconnected bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{handlers: make(map[string]mqtt.MessageHandler)}
}

func (c *fakeConn) Connect() mqtt.Token { return &fakeToken{err: c.connectErr} }

func (c *fakeConn) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	gate := c.gate
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var body string
	switch p := payload.(type) {
	case []byte:
		body = string(p)
	default:
		body = fmt.Sprint(p)
	}
	c.pubs = append(c.pubs, published{topic: topic, retained: retained, payload: body})
	return &fakeToken{err: c.publishErr}
}

func (c *fakeConn) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = cb
	return &fakeToken{}
}

func (c *fakeConn) Disconnect(uint) {
	c.mu.Lock()
	c.disconnected = true
	c.mu.Unlock()
}

// stall makes Publish block, like a broker that stopped acknowledging,
// until the returned func is called.
func (c *fakeConn) stall() (release func()) {
	gate := make(chan struct{})
	c.mu.Lock()
	c.gate = gate
	c.mu.Unlock()
	return func() { close(gate) }
}

func (c *fakeConn) published() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.pubs...)
}

// waitFor polls the published log until topic carries payload.
func (c *fakeConn) waitFor(t *testing.T, topic, payload string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if got, _ := c.last(topic); got == payload {
			return
		}
		if time.Now().After(deadline) {
			got, _ := c.last(topic)
			t.Fatalf("%s = %q, want %q", topic, got, payload)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// last returns the newest payload published on topic.
func (c *fakeConn) last(topic string) (string, bool) {
	pubs := c.published()
	for i := len(pubs) - 1; i >= 0; i-- {
		if pubs[i].topic == topic {
			return pubs[i].payload, true
		}
	}
	return "", false
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return qosAtLeastOnce }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// ---- service fakes ----

type stubControl struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (s *stubControl) record(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
	return s.err
}

func (s *stubControl) SetSystemPower(_ context.Context, device string, on bool) error {
	return s.record("SetSystemPower %s %t", device, on)
}
func (s *stubControl) SetHCMode(_ context.Context, device string, group int, mode models.HCMode) error {
	return s.record("SetHCMode %s %d %d", device, group, int(mode))
}
func (s *stubControl) SetZoneSetpoint(_ context.Context, device string, zone int, t float64) error {
	return s.record("SetZoneSetpoint %s %d %.1f", device, zone, t)
}
func (s *stubControl) SetZoneStatus(_ context.Context, device string, zone int, on bool) error {
	return s.record("SetZoneStatus %s %d %t", device, zone, on)
}
func (s *stubControl) DetachSchedule(_ context.Context, device string, zone int) error {
	return s.record("DetachSchedule %s %d", device, zone)
}
func (s *stubControl) SetClimateMode(_ context.Context, device string, mode models.ClimateMode) error {
	return s.record("SetClimateMode %s %s", device, mode)
}
func (s *stubControl) Refresh(_ context.Context, device string) (*models.Snapshot, error) {
	return nil, s.record("Refresh %s", device)
}

func (s *stubControl) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type stubMonitoring struct {
	mu    sync.Mutex
	views map[string]service.SnapshotView
}

func (s *stubMonitoring) set(v service.SnapshotView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.views == nil {
		s.views = make(map[string]service.SnapshotView)
	}
	s.views[v.Device] = v
}

func (s *stubMonitoring) GetSnapshot(device string) (service.SnapshotView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[device]
	if !ok {
		return service.SnapshotView{}, service.ErrNoSnapshot
	}
	return v, nil
}
func (s *stubMonitoring) GetZone(string, int) (models.Zone, error) { return models.Zone{}, nil }
func (s *stubMonitoring) Diagnostics(string) (service.Diagnostics, error) {
	return service.Diagnostics{}, nil
}
func (s *stubMonitoring) Statuses() []service.Status { return nil }
func (s *stubMonitoring) Ready() bool                { return true }

type stubDevices struct {
	mu    sync.Mutex
	names []string
	subs  []func(service.Update)
}

func (s *stubDevices) Device(name string) (*service.DeviceHandle, error) {
	return &service.DeviceHandle{Name: name}, nil
}
func (s *stubDevices) Names() []string { return s.names }
func (s *stubDevices) Subscribe(fn func(service.Update)) func() {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.subs[idx] = nil
		s.mu.Unlock()
	}
}
func (s *stubDevices) publish(u service.Update) {
	s.mu.Lock()
	subs := append(([]func(service.Update))(nil), s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(u)
		}
	}
}

type fixture struct {
	conn    *fakeConn
	control *stubControl
	mon     *stubMonitoring
	devices *stubDevices
	bridge  *Bridge
}

func newFixture(names ...string) *fixture {
	f := &fixture{
		conn:    newFakeConn(),
		control: &stubControl{},
		mon:     &stubMonitoring{},
		devices: &stubDevices{names: names},
	}
	svc := &service.Service{Control: f.control, Monitoring: f.mon, Devices: f.devices}
	f.bridge = newBridge(f.conn, "messana/", svc, nil)
	return f
}

func (f *fixture) deliver(topic, payload string) {
	f.bridge.onMessage(nil, &fakeMessage{topic: topic, payload: []byte(payload)})
}

func testSnapshot() *models.Snapshot {
	t := 21.5
	return &models.Snapshot{
		System: models.SystemState{PowerOn: true, TemperatureUnit: models.Celsius, ReportedZoneCount: 1, EffectiveZoneCount: 1},
		Zones:  []models.Zone{{ID: 0, Name: "Living", Temperature: &t}},
	}
}
