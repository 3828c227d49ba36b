package publisher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"messana_bridge/internal/models"
	"messana_bridge/internal/service"
)

var errUnknownTopic = errors.New("unknown command topic")

type commandKind int

const (
	cmdSystemPower commandKind = iota
	cmdZoneSetpoint
	cmdZonePower
	cmdHCMode
)

// command is one parsed "set" message.
type command struct {
	device string
	kind   commandKind
	index  int
	on     bool
	value  float64
	mode   models.HCMode
}

func (c command) String() string {
	switch c.kind {
	case cmdSystemPower:
		return "system power " + onOff(c.on)
	case cmdZoneSetpoint:
		return fmt.Sprintf("zone %d setpoint %.1f", c.index, c.value)
	case cmdZonePower:
		return fmt.Sprintf("zone %d power %s", c.index, onOff(c.on))
	default:
		return fmt.Sprintf("h/c group %d mode %s", c.index, c.mode)
	}
}

func (c command) apply(ctx context.Context, ctl service.Control) error {
	switch c.kind {
	case cmdSystemPower:
		return ctl.SetSystemPower(ctx, c.device, c.on)
	case cmdZoneSetpoint:
		return ctl.SetZoneSetpoint(ctx, c.device, c.index, c.value)
	case cmdZonePower:
		return ctl.SetZoneStatus(ctx, c.device, c.index, c.on)
	default:
		return ctl.SetHCMode(ctx, c.device, c.index, c.mode)
	}
}

// parseCommand maps a topic below prefix and its payload onto a command.
func parseCommand(prefix, topic string, payload []byte) (command, error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok {
		return command{}, errUnknownTopic
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 4 || parts[0] == "" || parts[len(parts)-1] != "set" {
		return command{}, errUnknownTopic
	}
	cmd := command{device: parts[0]}
	body := strings.TrimSpace(string(payload))

	var err error
	switch {
	case len(parts) == 4 && parts[1] == "system" && parts[2] == "power":
		cmd.kind = cmdSystemPower
		cmd.on, err = parseOnOff(body)
	case len(parts) == 5 && parts[1] == "zone" && parts[3] == "setpoint":
		cmd.kind = cmdZoneSetpoint
		if cmd.index, err = parseIndex(parts[2]); err == nil {
			cmd.value, err = parseTemperature(body)
		}
	case len(parts) == 5 && parts[1] == "zone" && parts[3] == "power":
		cmd.kind = cmdZonePower
		if cmd.index, err = parseIndex(parts[2]); err == nil {
			cmd.on, err = parseOnOff(body)
		}
	case len(parts) == 5 && parts[1] == "hc" && parts[3] == "mode":
		cmd.kind = cmdHCMode
		if cmd.index, err = parseIndex(parts[2]); err == nil {
			cmd.mode, err = models.ParseHCMode(body)
		}
	default:
		return command{}, errUnknownTopic
	}
	if err != nil {
		return command{}, err
	}
	return cmd, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "ON", "1", "TRUE":
		return true, nil
	case "OFF", "0", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("invalid on/off payload %q", s)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}

func parseTemperature(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid temperature %q", s)
	}
	return v, nil
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
