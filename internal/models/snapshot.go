package models

import "time"

// Snapshot is the aggregated controller state built by one refresh cycle.
// It is never mutated after publication; adapters must treat it as read-only.
type Snapshot struct {
	System    SystemState `json:"system"`
	HCGroups  []HCGroup   `json:"hc_groups"` // index == group id
	Zones     []Zone      `json:"zones"`     // index == zone id
	FetchedAt time.Time   `json:"fetched_at"`
}

// SystemState holds the controller-wide fields.
type SystemState struct {
	PowerOn            bool            `json:"power_on"`
	TemperatureUnit    TemperatureUnit `json:"temperature_unit"`
	ReportedZoneCount  int             `json:"reported_zone_count"`
	EffectiveZoneCount int             `json:"effective_zone_count"`
}

// HCGroup is one heat/cool group.
type HCGroup struct {
	ID              int    `json:"id"`
	Mode            HCMode `json:"mode"`
	ExecutiveSeason Season `json:"executive_season"`
}

// Zone is one climate zone. Nil readings mean the controller has no value.
type Zone struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Temperature    *float64      `json:"temperature"`
	Humidity       *float64      `json:"humidity"`
	Dewpoint       *float64      `json:"dewpoint"`
	Setpoint       *float64      `json:"setpoint"`
	PowerOn        bool          `json:"power_on"`
	ThermalStatus  ThermalStatus `json:"thermal_status"`
	ScheduleOn     bool          `json:"schedule_on"`
	ScheduleStatus int           `json:"schedule_status"`
}

// EffectiveZoneCount applies the configured override: a positive override
// wins, otherwise the controller-reported count is used. Never negative.
func EffectiveZoneCount(override, reported int) int {
	if override > 0 {
		return override
	}
	if reported < 0 {
		return 0
	}
	return reported
}

// Zone returns the zone at index id. A nil snapshot or out-of-range index
// reports false, which adapters render as "entity unavailable".
func (s *Snapshot) Zone(id int) (Zone, bool) {
	if s == nil || id < 0 || id >= len(s.Zones) {
		return Zone{}, false
	}
	return s.Zones[id], true
}

// Group returns the H/C group at index id.
func (s *Snapshot) Group(id int) (HCGroup, bool) {
	if s == nil || id < 0 || id >= len(s.HCGroups) {
		return HCGroup{}, false
	}
	return s.HCGroups[id], true
}
