package messana

import (
	"context"
	"fmt"
	"math"

	"messana_bridge/internal/models"
)

const (
	pathSystemStatus = "/api/system/status"
	pathTempUnit     = "/api/system/tempUnit"
	pathZoneCount    = "/api/system/zoneCount"
	pathHCGroupCount = "/api/system/HCgroupCount"

	// MaxCount bounds the zone and H/C group counts a controller may report.
	MaxCount = 256
)

// SystemPower reports whether the controller is switched on. A missing value is off.
func (c *Client) SystemPower(ctx context.Context) (bool, error) {
	data, err := c.get(ctx, pathSystemStatus)
	if err != nil {
		return false, err
	}
	return data.boolOr(false, "value"), nil
}

// SetSystemPower switches the whole controller on or off.
func (c *Client) SetSystemPower(ctx context.Context, on bool) error {
	_, err := c.put(ctx, pathSystemStatus, map[string]any{"value": boolValue(on)})
	return err
}

// TemperatureUnit returns the unit the controller reports in, Celsius when absent.
func (c *Client) TemperatureUnit(ctx context.Context) (models.TemperatureUnit, error) {
	data, err := c.get(ctx, pathTempUnit)
	if err != nil {
		return "", err
	}
	return models.ParseTemperatureUnit(data.stringOr(string(models.Celsius), "value")), nil
}

// ZoneCount returns the number of configured zones. A missing or non-numeric
// count is a data error, never defaulted.
func (c *Client) ZoneCount(ctx context.Context) (int, error) {
	data, err := c.get(ctx, pathZoneCount)
	if err != nil {
		return 0, err
	}
	return requiredCount(pathZoneCount, data, "count")
}

// HCGroupCount returns the number of H/C groups. The count field is read first,
// then value; neither being numeric is a data error.
func (c *Client) HCGroupCount(ctx context.Context) (int, error) {
	data, err := c.get(ctx, pathHCGroupCount)
	if err != nil {
		return 0, err
	}
	return requiredCount(pathHCGroupCount, data, "count", "value")
}

func requiredCount(path string, data fields, keys ...string) (int, error) {
	n, ok := data.number(keys...)
	if !ok {
		return 0, dataError(path, fmt.Errorf("no numeric %v in %v", keys, map[string]any(data)))
	}
	if n < 0 || n > MaxCount || n != math.Trunc(n) {
		return 0, dataError(path, fmt.Errorf("count %v is not an integer in 0..%d", n, MaxCount))
	}
	return int(n), nil
}
