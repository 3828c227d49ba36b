package service

import (
	"context"

	"messana_bridge/internal/messana"
	"messana_bridge/internal/models"
)

// DeviceReader is the read side of a controller that a refresh cycle drives.
type DeviceReader interface {
	SystemPower(ctx context.Context) (bool, error)
	TemperatureUnit(ctx context.Context) (models.TemperatureUnit, error)
	ZoneCount(ctx context.Context) (int, error)
	HCGroupCount(ctx context.Context) (int, error)

	HCMode(ctx context.Context, group int) (models.HCMode, error)
	HCExecutiveSeason(ctx context.Context, group int) (models.Season, error)

	ZoneName(ctx context.Context, zone int) (string, error)
	ZoneTemperature(ctx context.Context, zone int) (*float64, error)
	ZoneHumidity(ctx context.Context, zone int) (*float64, error)
	ZoneDewpoint(ctx context.Context, zone int) (*float64, error)
	ZoneSetpoint(ctx context.Context, zone int) (*float64, error)
	ZoneStatus(ctx context.Context, zone int) (int, error)
	ZoneThermalStatus(ctx context.Context, zone int) (models.ThermalStatus, error)
	ZoneScheduleOn(ctx context.Context, zone int) (bool, error)
	ZoneScheduleStatus(ctx context.Context, zone int) (int, error)
}

// DeviceWriter issues single commands to a controller.
type DeviceWriter interface {
	SetSystemPower(ctx context.Context, on bool) error
	SetHCMode(ctx context.Context, group int, mode models.HCMode) error
	SetZoneSetpoint(ctx context.Context, zone int, temperature float64) error
	SetZoneStatus(ctx context.Context, zone int, on bool) error
	SetZoneScheduleOn(ctx context.Context, zone int, on bool) (bool, error)
}

// Device is a full controller client.
type Device interface {
	DeviceReader
	DeviceWriter
}

var _ Device = (*messana.Client)(nil)
