package messana

import (
	"context"
	"fmt"

	"messana_bridge/internal/models"
)

const (
	pathZoneName           = "/api/zone/name"
	pathZoneTemperature    = "/api/zone/temperature"
	pathZoneHumidity       = "/api/zone/humidity"
	pathZoneDewpoint       = "/api/zone/dewpoint"
	pathZoneSetpoint       = "/api/zone/setpoint"
	pathZoneStatus         = "/api/zone/status"
	pathZoneThermalStatus  = "/api/zone/thermalStatus"
	pathZoneScheduleOn     = "/api/zone/scheduleOn"
	pathZoneScheduleStatus = "/api/zone/scheduleStatus"
)

func zonePath(base string, zone int) string { return fmt.Sprintf("%s/%d", base, zone) }

// ZoneName returns the zone name, "Zone <id>" when absent.
func (c *Client) ZoneName(ctx context.Context, zone int) (string, error) {
	data, err := c.get(ctx, zonePath(pathZoneName, zone))
	if err != nil {
		return "", err
	}
	return data.stringOr(fmt.Sprintf("Zone %d", zone), "name"), nil
}

// ZoneTemperature returns the air temperature or nil when there is no reading.
func (c *Client) ZoneTemperature(ctx context.Context, zone int) (*float64, error) {
	return c.zoneReading(ctx, zonePath(pathZoneTemperature, zone), true, "value")
}

// ZoneHumidity returns relative humidity. Firmware differs on the field name,
// so value is preferred and values is the fallback.
func (c *Client) ZoneHumidity(ctx context.Context, zone int) (*float64, error) {
	return c.zoneReading(ctx, zonePath(pathZoneHumidity, zone), false, "value", "values")
}

func (c *Client) ZoneDewpoint(ctx context.Context, zone int) (*float64, error) {
	return c.zoneReading(ctx, zonePath(pathZoneDewpoint, zone), true, "value")
}

func (c *Client) ZoneSetpoint(ctx context.Context, zone int) (*float64, error) {
	return c.zoneReading(ctx, zonePath(pathZoneSetpoint, zone), true, "value")
}

func (c *Client) zoneReading(ctx context.Context, path string, sentinel bool, keys ...string) (*float64, error) {
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return data.reading(sentinel, keys...), nil
}

// SetZoneSetpoint writes a new target temperature.
func (c *Client) SetZoneSetpoint(ctx context.Context, zone int, temperature float64) error {
	_, err := c.put(ctx, pathZoneSetpoint, map[string]any{"id": zone, "value": temperature})
	return err
}

// ZoneStatus returns 1 when the zone is on. Older firmware answers with status
// instead of value.
func (c *Client) ZoneStatus(ctx context.Context, zone int) (int, error) {
	data, err := c.get(ctx, zonePath(pathZoneStatus, zone))
	if err != nil {
		return 0, err
	}
	return data.intOr(0, "value", "status"), nil
}

func (c *Client) SetZoneStatus(ctx context.Context, zone int, on bool) error {
	_, err := c.put(ctx, pathZoneStatus, map[string]any{"id": zone, "value": boolValue(on)})
	return err
}

// ZoneThermalStatus returns 0 idle, 1 heating, 2 cooling or 3 both.
func (c *Client) ZoneThermalStatus(ctx context.Context, zone int) (models.ThermalStatus, error) {
	data, err := c.get(ctx, zonePath(pathZoneThermalStatus, zone))
	if err != nil {
		return 0, err
	}
	return models.ThermalStatus(data.intOr(0, "value")), nil
}

// ZoneScheduleOn reports whether the zone follows its schedule.
func (c *Client) ZoneScheduleOn(ctx context.Context, zone int) (bool, error) {
	data, err := c.get(ctx, zonePath(pathZoneScheduleOn, zone))
	if err != nil {
		return false, err
	}
	return data.boolOr(false, "value"), nil
}

// SetZoneScheduleOn attaches or detaches the schedule and returns the value the
// controller acknowledged, or the requested one when the reply carries none.
func (c *Client) SetZoneScheduleOn(ctx context.Context, zone int, on bool) (bool, error) {
	data, err := c.put(ctx, pathZoneScheduleOn, map[string]any{"id": zone, "value": boolValue(on)})
	if err != nil {
		return false, err
	}
	return data.boolOr(on, "value"), nil
}

func (c *Client) ZoneScheduleStatus(ctx context.Context, zone int) (int, error) {
	data, err := c.get(ctx, zonePath(pathZoneScheduleStatus, zone))
	if err != nil {
		return 0, err
	}
	return data.intOr(0, "value"), nil
}
