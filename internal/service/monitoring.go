package service

import (
	"time"

	"messana_bridge/internal/models"
)

// SnapshotView is what read adapters render for one device.
type SnapshotView struct {
	Device      string             `json:"device"`
	Snapshot    *models.Snapshot   `json:"snapshot"`
	ClimateMode models.ClimateMode `json:"climate_mode"`
	Stale       bool               `json:"stale"`
	LastError   string             `json:"last_error,omitempty"`
	LastSuccess time.Time          `json:"last_success"`
}

// Diagnostics is a compact debug readout: the system block and zone 0.
type Diagnostics struct {
	Device string             `json:"device"`
	System models.SystemState `json:"system"`
	Zone0  DiagnosticZone     `json:"zone0"`
}

// DiagnosticZone holds the zone 0 fields of a Diagnostics payload. All fields
// are nil when zone 0 does not exist.
type DiagnosticZone struct {
	Name        *string  `json:"name"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Dewpoint    *float64 `json:"dewpoint"`
	Setpoint    *float64 `json:"setpoint"`
	Status      *int     `json:"status"`
}

type MonitoringService struct {
	devices Registry
}

func NewMonitoringService(devices Registry) *MonitoringService {
	return &MonitoringService{devices: devices}
}

// GetSnapshot returns the latest published snapshot with its freshness.
func (s *MonitoringService) GetSnapshot(device string) (SnapshotView, error) {
	d, err := s.devices.Device(device)
	if err != nil {
		return SnapshotView{}, err
	}
	snap := d.Coordinator.Snapshot()
	if snap == nil {
		return SnapshotView{}, ErrNoSnapshot
	}
	st := d.Coordinator.Status()
	return SnapshotView{
		Device:      device,
		Snapshot:    snap,
		ClimateMode: models.DeriveClimateMode(snap),
		Stale:       st.Stale,
		LastError:   st.LastError,
		LastSuccess: st.LastSuccess,
	}, nil
}

// GetZone returns one zone. A missing index is ErrInvalidZone, which adapters
// present as "entity unavailable".
func (s *MonitoringService) GetZone(device string, zone int) (models.Zone, error) {
	d, err := s.devices.Device(device)
	if err != nil {
		return models.Zone{}, err
	}
	snap := d.Coordinator.Snapshot()
	if snap == nil {
		return models.Zone{}, ErrNoSnapshot
	}
	z, ok := snap.Zone(zone)
	if !ok {
		return models.Zone{}, ErrInvalidZone
	}
	return z, nil
}

func (s *MonitoringService) Diagnostics(device string) (Diagnostics, error) {
	d, err := s.devices.Device(device)
	if err != nil {
		return Diagnostics{}, err
	}
	snap := d.Coordinator.Snapshot()
	if snap == nil {
		return Diagnostics{}, ErrNoSnapshot
	}
	out := Diagnostics{Device: device, System: snap.System}
	if z, ok := snap.Zone(0); ok {
		name := z.Name
		status := 0
		if z.PowerOn {
			status = 1
		}
		out.Zone0 = DiagnosticZone{
			Name:        &name,
			Temperature: z.Temperature,
			Humidity:    z.Humidity,
			Dewpoint:    z.Dewpoint,
			Setpoint:    z.Setpoint,
			Status:      &status,
		}
	}
	return out, nil
}

// Statuses returns every device's cycle status, sorted by device name.
func (s *MonitoringService) Statuses() []Status {
	names := s.devices.Names()
	out := make([]Status, 0, len(names))
	for _, name := range names {
		d, err := s.devices.Device(name)
		if err != nil {
			continue
		}
		out = append(out, d.Coordinator.Status())
	}
	return out
}

// Ready is true once every device has published a snapshot.
func (s *MonitoringService) Ready() bool {
	for _, name := range s.devices.Names() {
		d, err := s.devices.Device(name)
		if err != nil || d.Coordinator.Snapshot() == nil {
			return false
		}
	}
	return true
}
