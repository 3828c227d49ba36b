package messana

import (
	"context"
	"fmt"

	"messana_bridge/internal/models"
)

const (
	pathHCMode            = "/api/hc/mode"
	pathHCExecutiveSeason = "/api/hc/executiveSeason"
)

// HCMode returns the mode of an H/C group, Auto when absent.
func (c *Client) HCMode(ctx context.Context, group int) (models.HCMode, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/%d", pathHCMode, group))
	if err != nil {
		return 0, err
	}
	return models.HCMode(data.intOr(int(models.HCModeAuto), "value")), nil
}

// SetHCMode changes the mode of an H/C group.
func (c *Client) SetHCMode(ctx context.Context, group int, mode models.HCMode) error {
	if !mode.Valid() {
		return apiError("PUT", pathHCMode, 0, fmt.Errorf("invalid mode %d", int(mode)))
	}
	_, err := c.put(ctx, pathHCMode, map[string]any{"id": group, "value": int(mode)})
	return err
}

// HCExecutiveSeason returns the executive season of an H/C group, Heating when absent.
func (c *Client) HCExecutiveSeason(ctx context.Context, group int) (models.Season, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/%d", pathHCExecutiveSeason, group))
	if err != nil {
		return 0, err
	}
	return models.Season(data.intOr(int(models.SeasonHeating), "value")), nil
}
