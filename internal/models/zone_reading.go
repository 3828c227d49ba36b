package models

import "time"

// ZoneReading is one persisted history row taken from a published snapshot.
type ZoneReading struct {
	Device        string        `json:"device"`
	ZoneID        int           `json:"zone_id"`
	Name          string        `json:"name"`
	Temperature   *float64      `json:"temperature"`
	Humidity      *float64      `json:"humidity"`
	Dewpoint      *float64      `json:"dewpoint"`
	Setpoint      *float64      `json:"setpoint"`
	PowerOn       bool          `json:"power_on"`
	ThermalStatus ThermalStatus `json:"thermal_status"`
	RecordedAt    time.Time     `json:"recorded_at"`
}

// ReadingsFromSnapshot flattens a snapshot into one reading per zone.
func ReadingsFromSnapshot(device string, s *Snapshot) []ZoneReading {
	if s == nil {
		return nil
	}
	out := make([]ZoneReading, 0, len(s.Zones))
	for _, z := range s.Zones {
		out = append(out, ZoneReading{
			Device:        device,
			ZoneID:        z.ID,
			Name:          z.Name,
			Temperature:   z.Temperature,
			Humidity:      z.Humidity,
			Dewpoint:      z.Dewpoint,
			Setpoint:      z.Setpoint,
			PowerOn:       z.PowerOn,
			ThermalStatus: z.ThermalStatus,
			RecordedAt:    s.FetchedAt,
		})
	}
	return out
}
