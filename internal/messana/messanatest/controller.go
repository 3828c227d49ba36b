// Package messanatest provides an in-memory Messana controller served over
// httptest for tests of code that talks to a real device.
package messanatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// DefaultAPIKey is the key accepted by a Controller unless changed.
const DefaultAPIKey = "test-key"

// Sentinel is what the device reports for a missing reading.
const Sentinel = -3276.8

// Group is one H/C group on the fake device.
type Group struct {
	Mode   int
	Season int
}

// Zone is one zone on the fake device. Nil readings are served as the sentinel
// (humidity is omitted instead).
type Zone struct {
	Name           string
	Temperature    *float64
	Humidity       *float64
	Dewpoint       *float64
	Setpoint       *float64
	Status         int
	ThermalStatus  int
	ScheduleOn     bool
	ScheduleStatus int
}

// State is the mutable device state.
type State struct {
	SystemOn bool
	TempUnit string
	Groups   []Group
	Zones    []Zone
}

// Request is a recorded call, with the api key stripped.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Controller is a fake device.
type Controller struct {
	mu       sync.Mutex
	apiKey   string
	state    State
	failures map[string]int
	requests []Request
	server   *httptest.Server
}

// Float is a helper for building readings.
func Float(v float64) *float64 { return &v }

// New starts a fake controller with two zones and one group. The server is
// closed when the test ends.
func New(t testing.TB) *Controller {
	t.Helper()
	c := &Controller{
		apiKey: DefaultAPIKey,
		state: State{
			SystemOn: true,
			TempUnit: "Celsius",
			Groups:   []Group{{Mode: 0, Season: 0}},
			Zones: []Zone{
				{Name: "Living", Temperature: Float(21.5), Humidity: Float(41.2), Dewpoint: Float(7.9), Setpoint: Float(21), Status: 1, ThermalStatus: 1, ScheduleOn: true, ScheduleStatus: 2},
				{Name: "Bedroom", Temperature: Float(19), Humidity: Float(45), Setpoint: Float(18.5)},
			},
		},
		failures: make(map[string]int),
	}
	c.server = httptest.NewServer(http.HandlerFunc(c.serve))
	t.Cleanup(c.server.Close)
	return c
}

// URL is the base URL to configure the client with.
func (c *Controller) URL() string { return c.server.URL }

// SetAPIKey changes the accepted key; other keys get 401.
func (c *Controller) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

// Mutate edits the device state under lock.
func (c *Controller) Mutate(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
}

// State returns a copy of the device state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Groups = append([]Group(nil), c.state.Groups...)
	s.Zones = append([]Zone(nil), c.state.Zones...)
	return s
}

// Fail makes every request whose path starts with prefix answer with status.
func (c *Controller) Fail(prefix string, status int) {
	c.mu.Lock()
	c.failures[prefix] = status
	c.mu.Unlock()
}

// Heal removes all injected failures.
func (c *Controller) Heal() {
	c.mu.Lock()
	c.failures = make(map[string]int)
	c.mu.Unlock()
}

// Requests returns every request served so far.
func (c *Controller) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Request(nil), c.requests...)
}

// Count returns how many requests hit a path starting with prefix.
func (c *Controller) Count(method, prefix string) int {
	n := 0
	for _, r := range c.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

func (c *Controller) serve(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := Request{Method: r.Method, Path: r.URL.Path}
	if r.Method == http.MethodPut {
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
	}
	c.requests = append(c.requests, req)

	if r.URL.Query().Get("apikey") != c.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	for prefix, status := range c.failures {
		if strings.HasPrefix(r.URL.Path, prefix) {
			http.Error(w, "injected failure", status)
			return
		}
	}

	resource, id, hasID := splitID(r.URL.Path)
	if r.Method == http.MethodPut {
		c.apply(w, resource, req.Body)
		return
	}

	switch resource {
	case "/api/system/status":
		writeJSON(w, map[string]any{"value": boolInt(c.state.SystemOn)})
		return
	case "/api/system/tempUnit":
		writeJSON(w, map[string]any{"value": c.state.TempUnit})
		return
	case "/api/system/zoneCount":
		writeJSON(w, map[string]any{"count": len(c.state.Zones)})
		return
	case "/api/system/HCgroupCount":
		writeJSON(w, map[string]any{"count": len(c.state.Groups)})
		return
	}

	if !hasID {
		http.NotFound(w, r)
		return
	}
	if strings.HasPrefix(resource, "/api/hc/") {
		if id < 0 || id >= len(c.state.Groups) {
			http.NotFound(w, r)
			return
		}
		g := c.state.Groups[id]
		switch resource {
		case "/api/hc/mode":
			writeJSON(w, map[string]any{"id": id, "value": g.Mode})
		case "/api/hc/executiveSeason":
			writeJSON(w, map[string]any{"id": id, "value": g.Season})
		default:
			http.NotFound(w, r)
		}
		return
	}

	if id < 0 || id >= len(c.state.Zones) {
		http.NotFound(w, r)
		return
	}
	z := c.state.Zones[id]
	switch resource {
	case "/api/zone/name":
		writeJSON(w, map[string]any{"id": id, "name": z.Name})
	case "/api/zone/temperature":
		writeJSON(w, map[string]any{"id": id, "value": orSentinel(z.Temperature)})
	case "/api/zone/humidity":
		body := map[string]any{"id": id}
		if z.Humidity != nil {
			body["value"] = *z.Humidity
		}
		writeJSON(w, body)
	case "/api/zone/dewpoint":
		writeJSON(w, map[string]any{"id": id, "value": orSentinel(z.Dewpoint)})
	case "/api/zone/setpoint":
		writeJSON(w, map[string]any{"id": id, "value": orSentinel(z.Setpoint)})
	case "/api/zone/status":
		writeJSON(w, map[string]any{"id": id, "value": z.Status})
	case "/api/zone/thermalStatus":
		writeJSON(w, map[string]any{"id": id, "value": z.ThermalStatus})
	case "/api/zone/scheduleOn":
		writeJSON(w, map[string]any{"id": id, "value": boolInt(z.ScheduleOn)})
	case "/api/zone/scheduleStatus":
		writeJSON(w, map[string]any{"id": id, "value": z.ScheduleStatus})
	default:
		http.NotFound(w, r)
	}
}

func (c *Controller) apply(w http.ResponseWriter, resource string, body map[string]any) {
	value, _ := body["value"].(float64)
	idf, _ := body["id"].(float64)
	id := int(idf)

	zone := func() *Zone {
		if id < 0 || id >= len(c.state.Zones) {
			return nil
		}
		return &c.state.Zones[id]
	}

	switch resource {
	case "/api/system/status":
		c.state.SystemOn = value != 0
	case "/api/hc/mode":
		if id < 0 || id >= len(c.state.Groups) {
			http.Error(w, "no such group", http.StatusBadRequest)
			return
		}
		c.state.Groups[id].Mode = int(value)
	case "/api/zone/setpoint":
		z := zone()
		if z == nil {
			http.Error(w, "no such zone", http.StatusBadRequest)
			return
		}
		z.Setpoint = Float(value)
	case "/api/zone/status":
		z := zone()
		if z == nil {
			http.Error(w, "no such zone", http.StatusBadRequest)
			return
		}
		z.Status = int(value)
		if value == 0 {
			z.ThermalStatus = 0
		}
	case "/api/zone/scheduleOn":
		z := zone()
		if z == nil {
			http.Error(w, "no such zone", http.StatusBadRequest)
			return
		}
		z.ScheduleOn = value != 0
		writeJSON(w, map[string]any{"id": id, "value": boolInt(z.ScheduleOn)})
		return
	default:
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func splitID(path string) (string, int, bool) {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return path, 0, false
	}
	id, err := strconv.Atoi(path[i+1:])
	if err != nil {
		return path, 0, false
	}
	return path[:i], id, true
}

func orSentinel(v *float64) float64 {
	if v == nil {
		return Sentinel
	}
	return *v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
